package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intdb "tourbackend/internal/db"
	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/events"
	"tourbackend/internal/gateway"
	"tourbackend/internal/repositories"
	"tourbackend/internal/utils"
)

// PaymentService owns payment state: checkout creation, idempotent webhook
// reconciliation and the refund request/approval handshake.
type PaymentService struct {
	DB          *sql.DB
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	Gateway     *gateway.Client
	Publisher   *events.Publisher
	RequestID   string
}

type CreatePaymentInput struct {
	BookingID     int64   `json:"bookingId"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
}

type CreatePaymentResult struct {
	Payment     models.Payment `json:"payment"`
	CheckoutURL string         `json:"checkoutUrl,omitempty"`
}

// Create opens a pending payment for the caller's own booking. The booking
// lookup is owner-scoped: a booking that belongs to someone else is reported
// as not found, never as forbidden.
func (s PaymentService) Create(ctx context.Context, actor domain.RequestContext, in CreatePaymentInput) (CreatePaymentResult, error) {
	if actor.Role != domain.RoleCustomer {
		return CreatePaymentResult{}, domain.ForbiddenError{Msg: "customer access required"}
	}
	if in.Amount <= 0 {
		return CreatePaymentResult{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	txRef := strings.TrimSpace(in.TransactionID)
	if txRef == "" {
		return CreatePaymentResult{}, domain.ValidationError{Field: "transactionId", Msg: "required"}
	}

	booking, err := s.BookingRepo.GetByIDForCustomer(ctx, in.BookingID, actor.UserID)
	if err != nil {
		return CreatePaymentResult{}, err
	}

	payment := models.Payment{
		BookingID:     booking.ID,
		Amount:        in.Amount,
		Method:        strings.TrimSpace(in.Method),
		TransactionID: txRef,
		Status:        models.PaymentPending,
		RefundRequest: models.RefundNone,
	}
	id, err := s.PaymentRepo.Create(ctx, payment)
	if err != nil {
		return CreatePaymentResult{}, err
	}
	payment.ID = id

	checkoutURL, err := s.Gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount: in.Amount,
		TxRef:  txRef,
		Method: payment.Method,
	})
	if err != nil {
		return CreatePaymentResult{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "create",
		fmt.Sprintf("payment_id=%d booking_id=%d tx_ref=%s", id, booking.ID, txRef))

	return CreatePaymentResult{Payment: payment, CheckoutURL: checkoutURL}, nil
}

// WebhookPayload is the gateway's asynchronous callback body. The signature
// over the raw body is checked at the HTTP boundary before this is decoded.
type WebhookPayload struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// ReconcileResult reports what the webhook did, so duplicate deliveries can
// be answered with an explicit "already processed".
type ReconcileResult struct {
	Payment          models.Payment `json:"payment"`
	AlreadyProcessed bool           `json:"alreadyProcessed"`
}

// Reconcile applies one gateway callback. Duplicate success callbacks are a
// no-op: once the payment is completed the handler short-circuits and the
// booking is not transitioned a second time. Success settles the payment and
// confirms the booking in a single transaction.
func (s PaymentService) Reconcile(ctx context.Context, payload WebhookPayload) (ReconcileResult, error) {
	payment, err := s.PaymentRepo.GetByTransactionID(ctx, strings.TrimSpace(payload.TxRef))
	if err != nil {
		return ReconcileResult{}, err
	}

	if payment.Status == models.PaymentCompleted {
		utils.LogEvent(s.RequestID, "payment", "webhook",
			fmt.Sprintf("tx_ref=%s already processed", payload.TxRef))
		return ReconcileResult{Payment: payment, AlreadyProcessed: true}, nil
	}

	switch normalizeGatewayStatus(payload.Status) {
	case "success":
		booking, err := s.BookingRepo.GetByID(ctx, payment.BookingID)
		if err != nil {
			return ReconcileResult{}, err
		}

		now := utils.NowUTC()
		err = intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
			if err := s.PaymentRepo.MarkCompletedTx(tx, payment.ID, now); err != nil {
				return err
			}
			// A booking that already left pending (manual cancel racing the
			// callback) keeps its state; the settled payment is recorded
			// either way and the refund flow handles the money.
			if booking.Status == models.BookingPending {
				if err := s.BookingRepo.UpdateStatusTx(tx, booking.ID, models.BookingConfirmed); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return ReconcileResult{}, domain.InternalError{Msg: "payment reconciliation failed", Err: err}
		}

		payment.Status = models.PaymentCompleted
		payment.PaymentDate = &now
		s.Publisher.Publish(events.ExchangePaymentCompleted, paymentEvent(payment))
		utils.LogEvent(s.RequestID, "payment", "webhook",
			fmt.Sprintf("tx_ref=%s completed booking_id=%d", payload.TxRef, payment.BookingID))
		return ReconcileResult{Payment: payment}, nil

	case "failed":
		if err := s.PaymentRepo.MarkFailed(ctx, payment.ID); err != nil {
			return ReconcileResult{}, domain.InternalError{Msg: "payment reconciliation failed", Err: err}
		}
		payment.Status = models.PaymentFailed
		utils.LogEvent(s.RequestID, "payment", "webhook",
			fmt.Sprintf("tx_ref=%s failed", payload.TxRef))
		return ReconcileResult{Payment: payment}, nil

	default:
		return ReconcileResult{}, domain.ValidationError{Field: "status", Msg: "unknown gateway status"}
	}
}

func normalizeGatewayStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "successful", "completed":
		return "success"
	case "failed", "failure", "cancelled":
		return "failed"
	default:
		return ""
	}
}

// RequestRefund flags a completed payment for refund. HR capability is
// checked by the caller. Repeated requests and already-refunded payments are
// answered idempotently with the current state.
func (s PaymentService) RequestRefund(ctx context.Context, bookingID int64) (models.Payment, error) {
	payment, err := s.PaymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return models.Payment{}, err
	}

	if payment.Status == models.PaymentRefunded {
		return payment, nil
	}
	if payment.Status == models.PaymentCompleted && payment.RefundRequest == models.RefundRequested {
		return payment, nil
	}
	if payment.Status != models.PaymentCompleted {
		return models.Payment{}, domain.ValidationError{Field: "status", Msg: "only completed payments can be refunded"}
	}

	if err := s.PaymentRepo.SetRefundRequested(ctx, payment.ID); err != nil {
		return models.Payment{}, err
	}
	payment.RefundRequest = models.RefundRequested

	utils.LogEvent(s.RequestID, "payment", "refund_request",
		fmt.Sprintf("payment_id=%d booking_id=%d", payment.ID, bookingID))
	return payment, nil
}

// ApproveRefund finalizes a requested refund: payment to refunded/APPROVED
// and the owning booking to cancelled, committed together or not at all.
func (s PaymentService) ApproveRefund(ctx context.Context, actor domain.RequestContext, paymentID int64) (models.Payment, error) {
	if actor.Role != domain.RoleAdmin {
		return models.Payment{}, domain.ForbiddenError{Msg: "admin access required"}
	}

	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if payment.Status != models.PaymentCompleted {
		return models.Payment{}, domain.ValidationError{Field: "status", Msg: "only completed payments can be refunded"}
	}
	if payment.RefundRequest != models.RefundRequested {
		return models.Payment{}, domain.ValidationError{Field: "refundRequest", Msg: "no pending refund request"}
	}

	booking, err := s.BookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if booking.Status != models.BookingCancelled {
		if _, err := NextStatus(booking.Status, models.EventCancel); err != nil {
			return models.Payment{}, err
		}
	}

	err = intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.PaymentRepo.ApproveRefundTx(tx, payment.ID); err != nil {
			return err
		}
		if booking.Status != models.BookingCancelled {
			if err := s.BookingRepo.UpdateStatusTx(tx, booking.ID, models.BookingCancelled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, domain.InternalError{Msg: "refund approval failed", Err: err}
	}

	payment.Status = models.PaymentRefunded
	payment.RefundRequest = models.RefundApproved
	s.Publisher.Publish(events.ExchangePaymentRefunded, paymentEvent(payment))
	s.Publisher.Publish(events.ExchangeBookingCancelled, paymentEvent(payment))

	utils.LogEvent(s.RequestID, "payment", "refund_approve",
		fmt.Sprintf("payment_id=%d booking_id=%d actor=%d", payment.ID, payment.BookingID, actor.UserID))
	return payment, nil
}

// GetForBooking applies the same visibility rule as payment creation:
// customers only ever see payments on their own bookings.
func (s PaymentService) GetForBooking(ctx context.Context, actor domain.RequestContext, bookingID int64) (models.Payment, error) {
	if actor.Role == domain.RoleCustomer {
		if _, err := s.BookingRepo.GetByIDForCustomer(ctx, bookingID, actor.UserID); err != nil {
			return models.Payment{}, err
		}
	} else if !actor.IsStaff() {
		return models.Payment{}, domain.ForbiddenError{Msg: "staff access required"}
	}
	return s.PaymentRepo.GetByBookingID(ctx, bookingID)
}

func paymentEvent(p models.Payment) events.PaymentEvent {
	return events.PaymentEvent{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Status:        p.Status,
		OccurredAt:    utils.NowUTC(),
	}
}
