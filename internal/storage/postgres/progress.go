package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rokibulparves/sobol/internal/model"
)

// GetOrCreateProgress returns the user's pacing row, inserting the day-one
// defaults on first access.
func (s *Storage) GetOrCreateProgress(ctx context.Context, userID uuid.UUID) (*model.Progress, error) {
	row := s.DB.QueryRow(ctx,
		`INSERT INTO user_progress (user_id, current_day, last_completed_day)
		 VALUES ($1, 1, 0)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = user_progress.user_id
		 RETURNING user_id, current_day, last_completed_day, last_watched_at`,
		userID)

	var p model.Progress
	err := row.Scan(&p.UserID, &p.CurrentDay, &p.LastCompletedDay, &p.LastWatchedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CompleteDay marks day as done and unlocks the next one. The WHERE clause
// only matches when day is the user's current day, so completing twice (or
// completing a browsed-back day) is a no-op reported as sql.ErrNoRows and
// last_completed_day < current_day keeps holding.
func (s *Storage) CompleteDay(ctx context.Context, userID uuid.UUID, day int, watchedAt time.Time) error {
	res, err := s.DB.Exec(ctx,
		`UPDATE user_progress
		 SET last_completed_day = $1,
		     current_day = $2,
		     last_watched_at = $3
		 WHERE user_id = $4 AND current_day = $1`,
		day, day+1, watchedAt, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}
