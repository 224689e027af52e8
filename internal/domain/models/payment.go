package models

import "time"

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Refund request states. Status and refund request are independent axes:
// a refund can only be requested on a completed payment, and APPROVED
// implies the payment itself moved to refunded.
const (
	RefundNone      = "NONE"
	RefundRequested = "REFUND_REQUESTED"
	RefundApproved  = "APPROVED"
)

type Payment struct {
	ID            int64      `json:"id"`
	BookingID     int64      `json:"bookingId"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	RefundRequest string     `json:"refundRequest"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
}
