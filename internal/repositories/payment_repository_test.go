package repositories

import (
	"context"
	"database/sql"
	"testing"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCreatePaymentMapsDuplicateToConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := PaymentRepository{DB: db}

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(int64(9), 1500.0, "gateway", "TX-9", models.PaymentPending, models.RefundNone).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), models.Payment{
		BookingID:     9,
		Amount:        1500.0,
		Method:        "gateway",
		TransactionID: "TX-9",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByBookingIDMapsNoRowsToNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := PaymentRepository{DB: db}

	mock.ExpectQuery("FROM payments").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByBookingID(context.Background(), 404)
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetByTransactionIDRejectsEmptyRef(t *testing.T) {
	db, _ := newMockDB(t)
	repo := PaymentRepository{DB: db}

	_, err := repo.GetByTransactionID(context.Background(), "")
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}
