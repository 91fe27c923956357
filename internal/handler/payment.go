package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rokibulparves/sobol/internal/gateway/sslcommerz"
	"github.com/rokibulparves/sobol/internal/service"
)

// InitiatePayment opens a checkout session. The response URL is opened by
// the app in an embedded browser; the gateway reports the outcome through
// the callback endpoints below.
func (h *Handler) InitiatePayment(c *gin.Context) {
	var input struct {
		UserID string  `json:"user_id"`
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing user_id or amount"})
		return
	}

	url, tranID, err := h.payments.InitiateTransaction(c.Request.Context(), input.UserID, input.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing user_id or amount"})
			return
		}
		var apiErr *sslcommerz.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Payment initiation failed",
				"details": apiErr.RawResponse,
			})
			return
		}
		h.log.Error().Err(err).Msg("payment initiation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Payment initiation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "tran_id": tranID})
}

// PaymentSuccess is the gateway's browser redirect after a completed
// checkout. Whatever happens inside, the embedded browser gets a page it
// can show and close.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	status := c.PostForm("status")
	valueA := c.PostForm("value_a")

	if err := h.payments.HandleSuccessCallback(c.Request.Context(), tranID, status, valueA); err != nil {
		h.log.Error().Err(err).Str("tran_id", tranID).Msg("success callback processing failed")
	}

	h.ackPage(c, "Payment Successful!", tranID, c.PostForm("amount"))
}

func (h *Handler) PaymentFail(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	h.payments.HandleFailCallback(c.Request.Context(), tranID)
	h.ackPage(c, "Payment Failed", tranID, "")
}

func (h *Handler) PaymentCancel(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	h.payments.HandleCancelCallback(c.Request.Context(), tranID)
	h.ackPage(c, "Payment Cancelled", tranID, "")
}

// PaymentIPN receives the gateway's server-to-server notification. It must
// answer 200 no matter what, or the gateway keeps retrying.
func (h *Handler) PaymentIPN(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.log.Warn().Err(err).Msg("unparseable IPN payload")
		c.String(http.StatusOK, "IPN OK")
		return
	}
	if err := h.payments.HandleIPN(c.Request.Context(), c.Request.PostForm); err != nil {
		h.log.Error().Err(err).Msg("IPN processing failed")
	}
	c.String(http.StatusOK, "IPN OK")
}

// GetPayment returns one of the caller's ledger rows for auditing.
func (h *Handler) GetPayment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	txn, err := h.payments.GetTransaction(c.Request.Context(), userID.String(), c.Param("tran_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tran_id":    txn.TranID,
		"amount":     txn.Amount,
		"currency":   txn.Currency,
		"status":     txn.Status,
		"created_at": txn.CreatedAt,
	})
}

// ackPage renders the small HTML page the embedded browser shows after a
// gateway redirect.
func (h *Handler) ackPage(c *gin.Context, title, tranID, amount string) {
	body := fmt.Sprintf(`<html>
  <body>
    <h2>%s</h2>
    <p>Transaction ID: %s</p>`, title, tranID)
	if amount != "" {
		body += fmt.Sprintf("\n    <p>Amount: %s BDT</p>", amount)
	}
	body += `
    <script> setTimeout(() => window.close(), 3000); </script>
  </body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
