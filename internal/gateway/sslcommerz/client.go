// Package sslcommerz talks to the SSLCommerz hosted-checkout API: creating
// payment sessions and re-validating transaction status server-to-server.
package sslcommerz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rokibulparves/sobol/internal/config"
)

const (
	sandboxBaseURL = "https://sandbox.sslcommerz.com"
	liveBaseURL    = "https://securepay.sslcommerz.com"

	sessionPath   = "/gwprocess/v4/api.php"
	validatorPath = "/validator/api/validationserverAPI.php"
)

// SessionRequest is the subset of the session-create form the app fills in
// per transaction. Static merchant/customer fields come from config.
type SessionRequest struct {
	TranID     string
	Amount     float64
	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string
	// ValueA is the gateway's passthrough field; we put the user id there so
	// callbacks can resolve the payer without parsing the tran id.
	ValueA string
}

type SessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type ValidationResponse struct {
	Status   string `json:"status"`
	TranID   string `json:"tran_id"`
	ValID    string `json:"val_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	ValueA   string `json:"value_a"`
}

// Valid reports whether the gateway vouches for the transaction. The
// validator answers VALID on first validation and VALIDATED on repeats.
func (v *ValidationResponse) Valid() bool {
	return v.Status == "VALID" || v.Status == "VALIDATED"
}

type Client struct {
	cfg     config.GatewayConfig
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	base := liveBaseURL
	if cfg.Sandbox {
		base = sandboxBaseURL
	}
	return &Client{
		cfg:     cfg,
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateSession registers a checkout session and returns the hosted page URL
// in SessionResponse.GatewayPageURL. A response without that URL is returned
// as an error carrying the raw body for diagnostics.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", strconv.FormatFloat(req.Amount, 'f', 2, 64))
	form.Set("currency", c.cfg.Currency)
	form.Set("tran_id", req.TranID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("ipn_url", req.IPNURL)
	form.Set("shipping_method", "NO")
	form.Set("product_name", c.cfg.ProductName)
	form.Set("product_category", "Digital")
	form.Set("product_profile", "general")
	form.Set("cus_name", c.cfg.CustomerName)
	form.Set("cus_email", fmt.Sprintf("user_%s@sobol.com", req.ValueA))
	form.Set("cus_add1", c.cfg.CustomerCity)
	form.Set("cus_city", c.cfg.CustomerCity)
	form.Set("cus_postcode", "1000")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", c.cfg.CustomerPhone)
	form.Set("value_a", req.ValueA)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+sessionPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "create session", StatusCode: resp.StatusCode, RawResponse: string(body)}
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, &APIError{Op: "create session", StatusCode: resp.StatusCode, RawResponse: string(body)}
	}
	if session.GatewayPageURL == "" {
		return nil, &APIError{Op: "create session", StatusCode: resp.StatusCode, RawResponse: string(body)}
	}
	return &session, nil
}

// ValidateTransaction asks the validator API for the authoritative status of
// a transaction. Browser redirects to our callback URLs are spoofable; this
// call is not.
func (c *Client) ValidateTransaction(ctx context.Context, valID string) (*ValidationResponse, error) {
	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", c.cfg.StoreID)
	q.Set("store_passwd", c.cfg.StorePassword)
	q.Set("format", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+validatorPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "validate transaction", StatusCode: resp.StatusCode, RawResponse: string(body)}
	}

	var validation ValidationResponse
	if err := json.Unmarshal(body, &validation); err != nil {
		return nil, &APIError{Op: "validate transaction", StatusCode: resp.StatusCode, RawResponse: string(body)}
	}
	return &validation, nil
}

// APIError preserves the gateway's raw response for diagnostics.
type APIError struct {
	Op          string
	StatusCode  int
	RawResponse string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sslcommerz %s failed (status %d): %s", e.Op, e.StatusCode, e.RawResponse)
}
