package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokibulparves/sobol/internal/gateway/sslcommerz"
	"github.com/rokibulparves/sobol/internal/model"
	"github.com/rokibulparves/sobol/internal/service"
)

type stubGateway struct {
	sessionErr error
}

func (s *stubGateway) CreateSession(_ context.Context, req sslcommerz.SessionRequest) (*sslcommerz.SessionResponse, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return &sslcommerz.SessionResponse{Status: "SUCCESS", GatewayPageURL: "https://pay.example/" + req.TranID}, nil
}

func (s *stubGateway) ValidateTransaction(_ context.Context, _ string) (*sslcommerz.ValidationResponse, error) {
	return &sslcommerz.ValidationResponse{Status: "INVALID"}, nil
}

type memLedger struct {
	mu   sync.Mutex
	rows map[string]*model.Transaction
}

func (m *memLedger) CreateTransaction(_ context.Context, txn *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.rows[txn.TranID] = &cp
	return nil
}

func (m *memLedger) GetTransaction(_ context.Context, tranID string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn, ok := m.rows[tranID]; ok {
		cp := *txn
		return &cp, nil
	}
	return nil, errors.New("no rows in result set")
}

func (m *memLedger) GetTransactionForUser(ctx context.Context, userID, tranID string) (*model.Transaction, error) {
	txn, err := m.GetTransaction(ctx, tranID)
	if err != nil || txn.UserID != userID {
		return nil, errors.New("no rows in result set")
	}
	return txn, nil
}

func (m *memLedger) TransitionTransaction(_ context.Context, tranID string, from, to model.TransactionStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.rows[tranID]
	if !ok || txn.Status != from {
		return false, nil
	}
	txn.Status = to
	return true, nil
}

type memProfiles struct {
	mu   sync.Mutex
	paid map[string]bool
}

func (m *memProfiles) MarkUserPaid(_ context.Context, userID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paid[userID] = true
	return nil
}

func newPaymentRouter(gw service.Gateway) (*gin.Engine, *memProfiles) {
	gin.SetMode(gin.TestMode)

	profiles := &memProfiles{paid: map[string]bool{}}
	svc := service.NewPaymentService(gw, &memLedger{rows: map[string]*model.Transaction{}},
		profiles, "http://localhost:5050", "BDT", zerolog.Nop())
	h := NewHandler(nil, svc, nil, nil, zerolog.Nop())

	r := gin.New()
	r.POST("/api/payment/initiate", h.InitiatePayment)
	r.POST("/api/payment/success", h.PaymentSuccess)
	r.POST("/api/payment/fail", h.PaymentFail)
	r.POST("/api/payment/cancel", h.PaymentCancel)
	r.POST("/api/payment/ipn", h.PaymentIPN)
	return r, profiles
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInitiateEndpoint(t *testing.T) {
	r, _ := newPaymentRouter(&stubGateway{})

	w := postJSON(r, "/api/payment/initiate", `{"user_id":"u1","amount":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"tran_id":"txn_`)
	assert.Contains(t, w.Body.String(), "https://pay.example/")
}

func TestInitiateEndpoint_MissingUserID(t *testing.T) {
	r, _ := newPaymentRouter(&stubGateway{})

	w := postJSON(r, "/api/payment/initiate", `{"amount":100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestInitiateEndpoint_GatewayFailure(t *testing.T) {
	r, _ := newPaymentRouter(&stubGateway{sessionErr: &sslcommerz.APIError{
		Op: "create session", StatusCode: 200, RawResponse: `{"status":"FAILED","failedreason":"bad store"}`,
	}})

	w := postJSON(r, "/api/payment/initiate", `{"user_id":"u1","amount":100}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "bad store")
}

func TestSuccessCallback_RendersAckAndMarksPaid(t *testing.T) {
	r, profiles := newPaymentRouter(&stubGateway{})

	form := url.Values{}
	form.Set("tran_id", "txn_123_u1")
	form.Set("status", "VALID")
	form.Set("value_a", "u1")
	form.Set("amount", "100.00")

	w := postForm(r, "/api/payment/success", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Payment Successful!")
	assert.Contains(t, w.Body.String(), "txn_123_u1")
	assert.True(t, profiles.paid["u1"])
}

func TestFailAndCancelCallbacks_NoMutation(t *testing.T) {
	r, profiles := newPaymentRouter(&stubGateway{})

	form := url.Values{}
	form.Set("tran_id", "txn_123_u1")

	w := postForm(r, "/api/payment/fail", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment Failed")

	w = postForm(r, "/api/payment/cancel", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment Cancelled")

	assert.Empty(t, profiles.paid)
}

func TestIPN_AlwaysAcknowledges(t *testing.T) {
	r, profiles := newPaymentRouter(&stubGateway{})

	form := url.Values{}
	form.Set("tran_id", "txn_123_u1")
	form.Set("val_id", "forged")

	w := postForm(r, "/api/payment/ipn", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "IPN OK", w.Body.String())
	assert.Empty(t, profiles.paid, "unvalidated IPN must not mutate the profile")
}
