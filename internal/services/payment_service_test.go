package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "amount", "method", "transaction_id",
		"status", "refund_request", "payment_date",
	})
}

func TestWebhookSuccessConfirmsBookingInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments").WithArgs("tx-42").
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentPending, models.RefundNone, nil))
	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 2500.0, models.BookingPending, time.Now(), 9))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingConfirmed, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	result, err := svc.Reconcile(context.Background(), WebhookPayload{TxRef: "tx-42", Status: "success"})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.AlreadyProcessed {
		t.Fatalf("first delivery must not be reported as already processed")
	}
	if result.Payment.Status != models.PaymentCompleted {
		t.Fatalf("payment status = %q, want completed", result.Payment.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	paid := time.Now()
	mock.ExpectQuery("FROM payments").WithArgs("tx-42").
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundNone, paid))

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	result, err := svc.Reconcile(context.Background(), WebhookPayload{TxRef: "tx-42", Status: "success"})
	if err != nil {
		t.Fatalf("duplicate delivery must succeed: %v", err)
	}
	if !result.AlreadyProcessed {
		t.Fatalf("expected already-processed short circuit")
	}

	// Neither the booking nor the payment may be touched again.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements on duplicate delivery: %v", err)
	}
}

func TestWebhookFailureMarksPaymentFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments").WithArgs("tx-42").
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentPending, models.RefundNone, nil))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(models.PaymentFailed, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	result, err := svc.Reconcile(context.Background(), WebhookPayload{TxRef: "tx-42", Status: "failed"})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.Payment.Status != models.PaymentFailed {
		t.Fatalf("payment status = %q, want failed", result.Payment.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookUnknownTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments").WithArgs("tx-missing").
		WillReturnRows(paymentRows())

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	_, err = svc.Reconcile(context.Background(), WebhookPayload{TxRef: "tx-missing", Status: "success"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestRefundPreconditions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}
	ctx := context.Background()

	// Pending payment cannot be refunded.
	mock.ExpectQuery("FROM payments").WithArgs(int64(42)).
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentPending, models.RefundNone, nil))
	if _, err := svc.RequestRefund(ctx, 42); !domain.IsValidation(err) {
		t.Fatalf("pending payment: expected validation error, got %v", err)
	}

	// Repeated request is idempotent success.
	paid := time.Now()
	mock.ExpectQuery("FROM payments").WithArgs(int64(42)).
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundRequested, paid))
	p, err := svc.RequestRefund(ctx, 42)
	if err != nil {
		t.Fatalf("repeated request must be idempotent: %v", err)
	}
	if p.RefundRequest != models.RefundRequested {
		t.Fatalf("refund request = %q, want REFUND_REQUESTED", p.RefundRequest)
	}

	// Already refunded is idempotent success as well.
	mock.ExpectQuery("FROM payments").WithArgs(int64(42)).
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentRefunded, models.RefundApproved, paid))
	if _, err := svc.RequestRefund(ctx, 42); err != nil {
		t.Fatalf("refunded payment: expected idempotent success, got %v", err)
	}

	// First request flags the payment.
	mock.ExpectQuery("FROM payments").WithArgs(int64(42)).
		WillReturnRows(paymentRows().
			AddRow(5, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundNone, paid))
	mock.ExpectExec("UPDATE payments SET refund_request").
		WithArgs(models.RefundRequested, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	p, err = svc.RequestRefund(ctx, 42)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if p.RefundRequest != models.RefundRequested {
		t.Fatalf("refund request = %q, want REFUND_REQUESTED", p.RefundRequest)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveRefundCascadesBookingCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	paid := time.Now()
	mock.ExpectQuery("FROM payments").WithArgs(int64(7)).
		WillReturnRows(paymentRows().
			AddRow(7, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundRequested, paid))
	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 2500.0, models.BookingConfirmed, time.Now(), 9))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(models.PaymentRefunded, models.RefundApproved, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingCancelled, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}
	admin := domain.RequestContext{UserID: 1, Role: domain.RoleAdmin}

	p, err := svc.ApproveRefund(context.Background(), admin, 7)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if p.Status != models.PaymentRefunded || p.RefundRequest != models.RefundApproved {
		t.Fatalf("payment = %q/%q, want refunded/APPROVED", p.Status, p.RefundRequest)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveRefundRollsBackOnBookingFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	paid := time.Now()
	mock.ExpectQuery("FROM payments").WithArgs(int64(7)).
		WillReturnRows(paymentRows().
			AddRow(7, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundRequested, paid))
	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 2500.0, models.BookingConfirmed, time.Now(), 9))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnError(fmt.Errorf("connection lost"))
	mock.ExpectRollback()

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}
	admin := domain.RequestContext{UserID: 1, Role: domain.RoleAdmin}

	if _, err := svc.ApproveRefund(context.Background(), admin, 7); !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("rollback not observed: %v", err)
	}
}

func TestApproveRefundRequiresPendingRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	paid := time.Now()
	mock.ExpectQuery("FROM payments").WithArgs(int64(7)).
		WillReturnRows(paymentRows().
			AddRow(7, 42, 2500.0, "card", "tx-42", models.PaymentCompleted, models.RefundNone, paid))

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}
	admin := domain.RequestContext{UserID: 1, Role: domain.RoleAdmin}

	if _, err := svc.ApproveRefund(context.Background(), admin, 7); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApproveRefundRequiresAdmin(t *testing.T) {
	svc := PaymentService{}
	hr := domain.RequestContext{UserID: 2, Role: domain.RoleEmployee}
	if _, err := svc.ApproveRefund(context.Background(), hr, 7); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreatePaymentHidesForeignBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Owner-scoped lookup returns no rows for someone else's booking.
	mock.ExpectQuery("FROM bookings").WithArgs(int64(42), int64(99)).
		WillReturnRows(bookingColumnsRows())

	svc := PaymentService{
		DB:          db,
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}
	actor := domain.RequestContext{UserID: 99, Role: domain.RoleCustomer}

	_, err = svc.Create(context.Background(), actor, CreatePaymentInput{
		BookingID:     42,
		Amount:        2500,
		Method:        "card",
		TransactionID: "tx-42",
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("foreign booking must come back as not found, got %v", err)
	}
	if domain.IsForbidden(err) {
		t.Fatalf("ownership miss must never be forbidden")
	}
}
