package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/rokibulparves/sobol/internal/model"
)

func (s *Storage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	res, err := s.DB.Exec(ctx,
		`INSERT INTO transactions (tran_id, user_id, amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.TranID, txn.UserID, txn.Amount, txn.Currency, txn.Status, txn.CreatedAt)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Storage) GetTransaction(ctx context.Context, tranID string) (*model.Transaction, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT tran_id, user_id, amount, currency, status, created_at, updated_at
		 FROM transactions
		 WHERE tran_id = $1`,
		tranID)

	var txn model.Transaction
	err := row.Scan(&txn.TranID, &txn.UserID, &txn.Amount, &txn.Currency,
		&txn.Status, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *Storage) GetTransactionForUser(ctx context.Context, userID, tranID string) (*model.Transaction, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT tran_id, user_id, amount, currency, status, created_at, updated_at
		 FROM transactions
		 WHERE tran_id = $1 AND user_id = $2`,
		tranID, userID)

	var txn model.Transaction
	err := row.Scan(&txn.TranID, &txn.UserID, &txn.Amount, &txn.Currency,
		&txn.Status, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// TransitionTransaction moves a ledger row from one status to another and
// reports whether the row actually moved. The conditional WHERE makes every
// terminal transition happen at most once, so a retried gateway callback
// lands on a false return instead of a second state change.
func (s *Storage) TransitionTransaction(ctx context.Context, tranID string, from, to model.TransactionStatus) (bool, error) {
	res, err := s.DB.Exec(ctx,
		`UPDATE transactions
		 SET status = $1, updated_at = $2
		 WHERE tran_id = $3 AND status = $4`,
		to, time.Now(), tranID, from)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
