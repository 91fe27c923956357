package model

import "time"

type TransactionStatus string

const (
	TransactionCreated   TransactionStatus = "created"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is one ledger row per payment initiation, keyed by the tran_id
// we hand to the gateway. A row leaves "created" at most once; confirmed,
// failed and cancelled are terminal.
type Transaction struct {
	TranID    string            `db:"tran_id"`
	UserID    string            `db:"user_id"`
	Amount    float64           `db:"amount"`
	Currency  string            `db:"currency"`
	Status    TransactionStatus `db:"status"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}
