package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	Password     string     `db:"password"`
	RefreshToken string     `db:"refresh_token"`
	IsPaid       bool       `db:"is_paid"`
	PaidAt       *time.Time `db:"paid_at"`
}
