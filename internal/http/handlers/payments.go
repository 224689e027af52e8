package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"tourbackend/internal/gateway"
	"tourbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// CreatePayment opens a pending payment for the caller's own booking and
// returns the gateway checkout URL.
// POST /api/payments
func (h *Handlers) CreatePayment(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req services.CreatePaymentInput
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.BookingID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid bookingId")
		return
	}

	result, err := h.paymentSvc(c).Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PaymentWebhook receives the gateway's server-to-server callback. The HMAC
// over the raw body is checked before the payload is even decoded; only then
// does reconciliation run. Duplicate deliveries are acknowledged as already
// processed.
// POST /api/payments/webhook
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "could not read request body")
		return
	}

	if !gateway.VerifySignature(h.Env.WebhookSecret, body, c.GetHeader(gateway.SignatureHeader)) {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid webhook signature")
		return
	}

	var payload services.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid webhook payload")
		return
	}

	result, err := h.paymentSvc(c).Reconcile(c.Request.Context(), payload)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{
			"message": "already processed",
			"status":  result.Payment.Status,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "processed",
		"status":  result.Payment.Status,
	})
}

type refundRequestBody struct {
	BookingID int64 `json:"bookingId"`
}

// RequestRefund flags a completed payment for refund (employee with HR).
// POST /api/payments/refund-request
func (h *Handlers) RequestRefund(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req refundRequestBody
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.BookingID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid bookingId")
		return
	}

	if err := h.staffSvc(c).RequireHR(c.Request.Context(), actor); err != nil {
		RespondDomainError(c, err)
		return
	}

	payment, err := h.paymentSvc(c).RequestRefund(c.Request.Context(), req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentId":     payment.ID,
		"status":        payment.Status,
		"refundRequest": payment.RefundRequest,
	})
}

type refundApproveBody struct {
	PaymentID int64 `json:"paymentId"`
}

// ApproveRefund finalizes a requested refund (admin only).
// POST /api/payments/refund-approve
func (h *Handlers) ApproveRefund(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req refundApproveBody
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.PaymentID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid paymentId")
		return
	}

	payment, err := h.paymentSvc(c).ApproveRefund(c.Request.Context(), actor, req.PaymentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentId":     payment.ID,
		"status":        payment.Status,
		"refundRequest": payment.RefundRequest,
	})
}

// GetBookingPayment returns the payment of one booking, visibility-scoped.
// GET /api/payments/booking/:bookingId
func (h *Handlers) GetBookingPayment(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	bookingID, ok := idParam(c, "bookingId")
	if !ok {
		return
	}
	payment, err := h.paymentSvc(c).GetForBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
