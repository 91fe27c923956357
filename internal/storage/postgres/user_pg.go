package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rokibulparves/sobol/internal/model"
)

func (s *Storage) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.DB.Exec(ctx,
		`INSERT INTO users (id, email, password, refresh_token, is_paid)
		 VALUES ($1, $2, $3, $4, false)`,
		user.ID, user.Email, user.Password, user.RefreshToken)
	return err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT id, email, password, refresh_token, is_paid, paid_at FROM users
		 WHERE email=$1`,
		email)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.RefreshToken, &u.IsPaid, &u.PaidAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT id, email, password, refresh_token, is_paid, paid_at FROM users
		 WHERE id=$1`,
		id)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.RefreshToken, &u.IsPaid, &u.PaidAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) GetUserByRefresh(ctx context.Context, refreshToken string) (*model.User, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT id, email, password, refresh_token, is_paid, paid_at
		 FROM users
		 WHERE refresh_token=$1`,
		refreshToken)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.RefreshToken, &u.IsPaid, &u.PaidAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE users
		 SET refresh_token=$1
		 WHERE id=$2`,
		refreshToken, id)
	return err
}

// MarkUserPaid flips the entitlement. paid_at keeps its first value on
// repeated confirmations and is_paid is never set back to false here, so
// duplicate gateway callbacks cannot corrupt the profile.
func (s *Storage) MarkUserPaid(ctx context.Context, userID string, paidAt time.Time) error {
	res, err := s.DB.Exec(ctx,
		`UPDATE users
		 SET is_paid = true,
		     paid_at = COALESCE(paid_at, $1)
		 WHERE id = $2`,
		paidAt, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}
