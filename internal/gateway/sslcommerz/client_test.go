package sslcommerz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokibulparves/sobol/internal/config"
)

func testConfig() config.GatewayConfig {
	return config.GatewayConfig{
		StoreID:       "teststore",
		StorePassword: "testpass",
		Sandbox:       true,
		Timeout:       5 * time.Second,
		Currency:      "BDT",
		ProductName:   "Premium Subscription",
		CustomerName:  "Sobol User",
		CustomerCity:  "Dhaka",
		CustomerPhone: "01711111111",
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(testConfig())
	c.baseURL = srv.URL
	return c
}

func TestCreateSession_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "teststore", r.PostForm.Get("store_id"))
		assert.Equal(t, "txn_1_u1", r.PostForm.Get("tran_id"))
		assert.Equal(t, "100.00", r.PostForm.Get("total_amount"))
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))
		assert.Equal(t, "u1", r.PostForm.Get("value_a"))
		assert.Equal(t, "http://host/api/payment/ipn", r.PostForm.Get("ipn_url"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"sk1","GatewayPageURL":"https://pay.example/sk1"}`))
	})

	session, err := c.CreateSession(context.Background(), SessionRequest{
		TranID:     "txn_1_u1",
		Amount:     100,
		SuccessURL: "http://host/api/payment/success",
		FailURL:    "http://host/api/payment/fail",
		CancelURL:  "http://host/api/payment/cancel",
		IPNURL:     "http://host/api/payment/ipn",
		ValueA:     "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/sk1", session.GatewayPageURL)
}

func TestCreateSession_NoGatewayPageURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credential error"}`))
	})

	_, err := c.CreateSession(context.Background(), SessionRequest{TranID: "txn_2_u1", Amount: 50})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Contains(t, apiErr.RawResponse, "store credential error")
}

func TestCreateSession_Non2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	})

	_, err := c.CreateSession(context.Background(), SessionRequest{TranID: "txn_3_u1", Amount: 50})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestValidateTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "val123", r.URL.Query().Get("val_id"))
		assert.Equal(t, "teststore", r.URL.Query().Get("store_id"))
		w.Write([]byte(`{"status":"VALID","tran_id":"txn_1_u1","val_id":"val123","amount":"100.00","currency":"BDT","value_a":"u1"}`))
	})

	v, err := c.ValidateTransaction(context.Background(), "val123")
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, "txn_1_u1", v.TranID)
	assert.Equal(t, "u1", v.ValueA)
}

func TestValidationResponse_Valid(t *testing.T) {
	for status, want := range map[string]bool{
		"VALID":     true,
		"VALIDATED": true,
		"INVALID":   false,
		"FAILED":    false,
		"":          false,
	} {
		v := &ValidationResponse{Status: status}
		if v.Valid() != want {
			t.Errorf("Valid() for status %q = %v, want %v", status, v.Valid(), want)
		}
	}
}
