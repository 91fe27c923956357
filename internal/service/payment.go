package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rokibulparves/sobol/internal/gateway/sslcommerz"
	"github.com/rokibulparves/sobol/internal/model"
)

// ErrInvalidInput is returned when an initiation request is missing the user
// id or carries a non-positive amount. The gateway is never called in that
// case.
var ErrInvalidInput = errors.New("user_id and a positive amount are required")

// Gateway is the slice of the payment processor the coordinator needs.
type Gateway interface {
	CreateSession(ctx context.Context, req sslcommerz.SessionRequest) (*sslcommerz.SessionResponse, error)
	ValidateTransaction(ctx context.Context, valID string) (*sslcommerz.ValidationResponse, error)
}

type TransactionLedger interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, tranID string) (*model.Transaction, error)
	GetTransactionForUser(ctx context.Context, userID, tranID string) (*model.Transaction, error)
	TransitionTransaction(ctx context.Context, tranID string, from, to model.TransactionStatus) (bool, error)
}

type ProfileStore interface {
	MarkUserPaid(ctx context.Context, userID string, paidAt time.Time) error
}

// PaymentService coordinates the transaction lifecycle: it opens checkout
// sessions with the gateway, keeps a ledger row per transaction, and flips
// the payer's entitlement exactly once per confirmed transaction.
type PaymentService struct {
	gateway  Gateway
	ledger   TransactionLedger
	profiles ProfileStore
	baseURL  string
	currency string
	log      zerolog.Logger
}

func NewPaymentService(gw Gateway, ledger TransactionLedger, profiles ProfileStore,
	baseURL, currency string, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gw,
		ledger:   ledger,
		profiles: profiles,
		baseURL:  baseURL,
		currency: currency,
		log:      log,
	}
}

// InitiateTransaction opens a checkout session and returns the hosted page
// URL plus the transaction id. The entitlement is not touched here:
// initiation is not proof of payment.
func (s *PaymentService) InitiateTransaction(ctx context.Context, userID string, amount float64) (string, string, error) {
	if userID == "" || amount <= 0 {
		return "", "", ErrInvalidInput
	}

	tranID := fmt.Sprintf("txn_%d_%s", time.Now().UnixMilli(), userID)

	txn := &model.Transaction{
		TranID:    tranID,
		UserID:    userID,
		Amount:    amount,
		Currency:  s.currency,
		Status:    model.TransactionCreated,
		CreatedAt: time.Now(),
	}
	if err := s.ledger.CreateTransaction(ctx, txn); err != nil {
		return "", "", fmt.Errorf("failed to record transaction: %w", err)
	}

	session, err := s.gateway.CreateSession(ctx, sslcommerz.SessionRequest{
		TranID:     tranID,
		Amount:     amount,
		SuccessURL: s.callbackURL("success"),
		FailURL:    s.callbackURL("fail"),
		CancelURL:  s.callbackURL("cancel"),
		IPNURL:     s.callbackURL("ipn"),
		ValueA:     userID,
	})
	if err != nil {
		// The checkout never opened; close the ledger row.
		if _, ferr := s.ledger.TransitionTransaction(ctx, tranID,
			model.TransactionCreated, model.TransactionFailed); ferr != nil {
			s.log.Error().Err(ferr).Str("tran_id", tranID).Msg("failed to close ledger row after gateway error")
		}
		return "", "", err
	}

	s.log.Info().Str("tran_id", tranID).Str("user_id", userID).
		Float64("amount", amount).Msg("payment session created")
	return session.GatewayPageURL, tranID, nil
}

// HandleSuccessCallback processes the gateway's success redirect. Gateways
// retry callbacks, so this path must tolerate being hit more than once for
// the same transaction. Errors are returned for logging only; the HTTP
// layer acknowledges the gateway regardless.
func (s *PaymentService) HandleSuccessCallback(ctx context.Context, tranID, status, valueA string) error {
	if status != "VALID" {
		s.log.Warn().Str("tran_id", tranID).Str("status", status).
			Msg("success callback with non-VALID status, ignoring")
		return nil
	}
	return s.confirm(ctx, tranID, valueA)
}

func (s *PaymentService) HandleFailCallback(ctx context.Context, tranID string) {
	s.closeTransaction(ctx, tranID, model.TransactionFailed)
}

func (s *PaymentService) HandleCancelCallback(ctx context.Context, tranID string) {
	s.closeTransaction(ctx, tranID, model.TransactionCancelled)
}

// HandleIPN processes the gateway's server-to-server notification. Unlike
// the browser redirects, which anyone can forge, the IPN path re-validates
// the transaction against the gateway before mutating anything.
func (s *PaymentService) HandleIPN(ctx context.Context, form url.Values) error {
	valID := form.Get("val_id")
	tranID := form.Get("tran_id")
	if valID == "" {
		s.log.Warn().Str("tran_id", tranID).Msg("IPN without val_id, ignoring")
		return nil
	}

	validation, err := s.gateway.ValidateTransaction(ctx, valID)
	if err != nil {
		s.log.Error().Err(err).Str("tran_id", tranID).Msg("IPN validation call failed")
		return err
	}
	if !validation.Valid() {
		s.log.Warn().Str("tran_id", validation.TranID).Str("status", validation.Status).
			Msg("IPN for non-valid transaction")
		s.closeTransaction(ctx, validation.TranID, model.TransactionFailed)
		return nil
	}
	return s.confirm(ctx, validation.TranID, validation.ValueA)
}

// GetTransaction returns one of the caller's ledger rows.
func (s *PaymentService) GetTransaction(ctx context.Context, userID, tranID string) (*model.Transaction, error) {
	return s.ledger.GetTransactionForUser(ctx, userID, tranID)
}

// confirm moves the ledger row created→confirmed and marks the payer paid.
// The conditional transition makes the profile update fire at most once per
// transaction; the update itself is monotonic anyway.
func (s *PaymentService) confirm(ctx context.Context, tranID, valueA string) error {
	userID := s.resolveUserID(ctx, tranID, valueA)
	if userID == "" {
		s.log.Warn().Str("tran_id", tranID).Msg("cannot resolve user for transaction, ignoring")
		return nil
	}

	moved, err := s.ledger.TransitionTransaction(ctx, tranID,
		model.TransactionCreated, model.TransactionConfirmed)
	if err != nil {
		s.log.Error().Err(err).Str("tran_id", tranID).Msg("ledger update failed")
		return err
	}
	if !moved {
		if _, gerr := s.ledger.GetTransaction(ctx, tranID); gerr == nil {
			// Row exists but already left created: a retried callback.
			s.log.Info().Str("tran_id", tranID).Msg("transaction already settled, duplicate callback ignored")
			return nil
		}
		// A callback for a transaction we never initiated. Record it as
		// confirmed so a retry lands on the duplicate path above.
		s.log.Warn().Str("tran_id", tranID).Msg("callback for unknown transaction, recording")
		if cerr := s.ledger.CreateTransaction(ctx, &model.Transaction{
			TranID:    tranID,
			UserID:    userID,
			Currency:  s.currency,
			Status:    model.TransactionConfirmed,
			CreatedAt: time.Now(),
		}); cerr != nil {
			s.log.Error().Err(cerr).Str("tran_id", tranID).Msg("failed to record unknown transaction")
		}
	}

	if err := s.profiles.MarkUserPaid(ctx, userID, time.Now()); err != nil {
		// The gateway is still acknowledged upstream; the entitlement stays
		// unset until reconciled by hand. See the transactions table.
		s.log.Error().Err(err).Str("tran_id", tranID).Str("user_id", userID).
			Msg("profile update failed after confirmed payment")
		return err
	}

	s.log.Info().Str("tran_id", tranID).Str("user_id", userID).Msg("payment confirmed, profile marked paid")
	return nil
}

// closeTransaction moves a created row to a terminal failure state. Rows
// already confirmed (or already closed) are left alone, so a stray fail or
// cancel callback can never revert an entitlement.
func (s *PaymentService) closeTransaction(ctx context.Context, tranID string, to model.TransactionStatus) {
	if tranID == "" {
		return
	}
	moved, err := s.ledger.TransitionTransaction(ctx, tranID, model.TransactionCreated, to)
	if err != nil {
		s.log.Error().Err(err).Str("tran_id", tranID).Msg("ledger update failed")
		return
	}
	if moved {
		s.log.Info().Str("tran_id", tranID).Str("status", string(to)).Msg("transaction closed")
	}
}

// resolveUserID prefers the ledger row, then the value_a passthrough, and
// only then parses the user id out of the tran id. The parse assumes user
// ids contain no underscores beyond their own and is a last resort.
func (s *PaymentService) resolveUserID(ctx context.Context, tranID, valueA string) string {
	if txn, err := s.ledger.GetTransaction(ctx, tranID); err == nil {
		return txn.UserID
	}
	if valueA != "" {
		return valueA
	}
	parts := strings.SplitN(tranID, "_", 3)
	if len(parts) == 3 && parts[2] != "" {
		s.log.Warn().Str("tran_id", tranID).
			Msg("resolved user by parsing tran_id, this is fragile")
		return parts[2]
	}
	return ""
}

func (s *PaymentService) callbackURL(action string) string {
	return fmt.Sprintf("%s/api/payment/%s", s.baseURL, action)
}
