package services

import (
	"context"
	"testing"
	"time"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNextStatusGraph(t *testing.T) {
	cases := []struct {
		name    string
		current string
		event   models.BookingEvent
		want    string
		wantErr bool
	}{
		{"payment confirms pending", models.BookingPending, models.EventPaymentSuccess, models.BookingConfirmed, false},
		{"start from confirmed", models.BookingConfirmed, models.EventStart, models.BookingInProgress, false},
		{"end from in-progress", models.BookingInProgress, models.EventEnd, models.BookingCompleted, false},
		{"cancel from pending", models.BookingPending, models.EventCancel, models.BookingCancelled, false},
		{"cancel from confirmed", models.BookingConfirmed, models.EventCancel, models.BookingCancelled, false},
		{"start from pending rejected", models.BookingPending, models.EventStart, "", true},
		{"start from in-progress rejected", models.BookingInProgress, models.EventStart, "", true},
		{"end from confirmed rejected", models.BookingConfirmed, models.EventEnd, "", true},
		{"cancel from in-progress rejected", models.BookingInProgress, models.EventCancel, "", true},
		{"completed is terminal", models.BookingCompleted, models.EventEnd, "", true},
		{"cancelled is terminal", models.BookingCancelled, models.EventStart, "", true},
	}

	for _, tc := range cases {
		got, err := NextStatus(tc.current, tc.event)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got status %q", tc.name, got)
			}
			if !domain.IsTransition(err) && !domain.IsValidation(err) {
				t.Fatalf("%s: expected transition error, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func bookingColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "tour_id", "vehicle_id", "driver_id",
		"start_date", "end_date", "number_of_people", "total_price",
		"status", "booking_date", "tour_guide_id",
	})
}

func TestStartRequiresConfirmedAndLeavesStatusUnchanged(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 500.0, models.BookingPending, time.Now(), 9))

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}
	actor := domain.RequestContext{UserID: 9, Role: domain.RoleTourGuide}

	_, err = svc.Transition(context.Background(), actor, 42, models.EventStart)
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}

	// No UPDATE must have been issued for the rejected move.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestStartRejectsUnassignedGuide(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 500.0, models.BookingConfirmed, time.Now(), 9))

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}
	actor := domain.RequestContext{UserID: 13, Role: domain.RoleTourGuide}

	_, err = svc.Transition(context.Background(), actor, 42, models.EventStart)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestStartHappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 500.0, models.BookingConfirmed, time.Now(), 9))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingInProgress, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}
	actor := domain.RequestContext{UserID: 9, Role: domain.RoleTourGuide}

	booking, err := svc.Transition(context.Background(), actor, 42, models.EventStart)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if booking.Status != models.BookingInProgress {
		t.Fatalf("status = %q, want in-progress", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenericUpdateRejectsSkippedEdge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings").WithArgs(int64(42)).
		WillReturnRows(bookingColumnsRows().
			AddRow(42, 7, 3, nil, nil, "2026-09-01", "2026-09-03", 2, 500.0, models.BookingConfirmed, time.Now(), 9))

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}
	actor := domain.RequestContext{UserID: 9, Role: domain.RoleTourGuide}

	// confirmed -> completed skips in-progress and must be rejected.
	_, err = svc.UpdateStatus(context.Background(), actor, 42, models.BookingCompleted)
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestGenericUpdateRejectsUnknownStatus(t *testing.T) {
	svc := BookingService{}
	actor := domain.RequestContext{UserID: 9, Role: domain.RoleTourGuide}
	_, err := svc.UpdateStatus(context.Background(), actor, 42, "teleported")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingDerivesPriceFromTour(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM tours").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "tour_guide_id"}).
			AddRow(3, "Simien Trek", "4 days", 250.0, nil))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(101, 1))

	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		TourRepo:    repositories.TourRepository{DB: db},
	}
	actor := domain.RequestContext{UserID: 7, Role: domain.RoleCustomer}

	booking, err := svc.Create(context.Background(), actor, CreateBookingInput{
		TourID:         3,
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-04",
		NumberOfPeople: 2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if booking.ID != 101 {
		t.Fatalf("id = %d, want 101", booking.ID)
	}
	if booking.TotalPrice != 500.0 {
		t.Fatalf("total = %v, want 500", booking.TotalPrice)
	}
	if booking.Status != models.BookingPending {
		t.Fatalf("status = %q, want pending", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc := BookingService{}
	actor := domain.RequestContext{UserID: 7, Role: domain.RoleCustomer}

	if _, err := svc.Create(context.Background(), actor, CreateBookingInput{TourID: 3, StartDate: "2026-09-01", EndDate: "2026-09-04", NumberOfPeople: 0}); !domain.IsValidation(err) {
		t.Fatalf("zero people: expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, CreateBookingInput{TourID: 3, StartDate: "2026-09-04", EndDate: "2026-09-01", NumberOfPeople: 1}); !domain.IsValidation(err) {
		t.Fatalf("reversed dates: expected validation error, got %v", err)
	}
	staff := domain.RequestContext{UserID: 1, Role: domain.RoleEmployee}
	if _, err := svc.Create(context.Background(), staff, CreateBookingInput{TourID: 3, StartDate: "2026-09-01", EndDate: "2026-09-04", NumberOfPeople: 1}); !domain.IsForbidden(err) {
		t.Fatalf("staff create: expected forbidden, got %v", err)
	}
}
