package model

import (
	"time"

	"github.com/google/uuid"
)

// Progress tracks day-by-day pacing. CurrentDay is the highest day unlocked
// by pacing; completing a day advances it by exactly one, so
// LastCompletedDay < CurrentDay always holds.
type Progress struct {
	UserID           uuid.UUID  `db:"user_id"`
	CurrentDay       int        `db:"current_day"`
	LastCompletedDay int        `db:"last_completed_day"`
	LastWatchedAt    *time.Time `db:"last_watched_at"`
}
