package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `
	id,
	booking_id,
	COALESCE(amount,0),
	COALESCE(method,''),
	COALESCE(transaction_id,''),
	COALESCE(status,''),
	COALESCE(refund_request,'NONE'),
	payment_date`

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var (
		p    models.Payment
		paid sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.TransactionID,
		&p.Status,
		&p.RefundRequest,
		&paid,
	)
	if err != nil {
		return models.Payment{}, err
	}
	if paid.Valid {
		p.PaymentDate = &paid.Time
	}
	return p, nil
}

// Create inserts a pending payment. booking_id and transaction_id both carry
// unique indexes; a duplicate on either surfaces as a Conflict.
func (r PaymentRepository) Create(ctx context.Context, p models.Payment) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (booking_id, amount, method, transaction_id, status, refund_request)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.Amount, p.Method, p.TransactionID, models.PaymentPending, models.RefundNone,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, domain.ConflictError{Resource: "payment", Msg: "payment already exists for this booking or transaction"}
		}
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return res.LastInsertId()
}

func (r PaymentRepository) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "payment_id", Msg: "invalid id"}
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, err
	}
	return p, nil
}

func (r PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (models.Payment, error) {
	if bookingID <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=? LIMIT 1`, bookingID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, err
	}
	return p, nil
}

// GetByTransactionID looks up by the gateway-side correlation key. The webhook
// only carries the gateway reference, never our payment id.
func (r PaymentRepository) GetByTransactionID(ctx context.Context, txRef string) (models.Payment, error) {
	if txRef == "" {
		return models.Payment{}, domain.ValidationError{Field: "tx_ref", Msg: "missing transaction reference"}
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id=? LIMIT 1`, txRef)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, err
	}
	return p, nil
}

// MarkCompletedTx records a successful gateway settlement. Runs inside the
// reconciliation transaction together with the booking confirmation.
func (r PaymentRepository) MarkCompletedTx(tx *sql.Tx, id int64, when time.Time) error {
	_, err := tx.Exec(`UPDATE payments SET status=?, payment_date=? WHERE id=?`,
		models.PaymentCompleted, when, id)
	return err
}

func (r PaymentRepository) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE payments SET status=? WHERE id=?`, models.PaymentFailed, id)
	return err
}

func (r PaymentRepository) SetRefundRequested(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE payments SET refund_request=? WHERE id=?`, models.RefundRequested, id)
	return err
}

// ApproveRefundTx flips the payment to refunded/APPROVED. Runs inside the
// approval transaction together with the booking cancellation.
func (r PaymentRepository) ApproveRefundTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec(`UPDATE payments SET status=?, refund_request=? WHERE id=?`,
		models.PaymentRefunded, models.RefundApproved, id)
	return err
}
