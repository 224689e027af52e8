package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `
	b.id,
	b.customer_id,
	b.tour_id,
	b.vehicle_id,
	b.driver_id,
	COALESCE(b.start_date,''),
	COALESCE(b.end_date,''),
	COALESCE(b.number_of_people,0),
	COALESCE(b.total_price,0),
	COALESCE(b.status,''),
	b.booking_date,
	t.tour_guide_id`

const bookingFrom = `
	FROM bookings b
	LEFT JOIN tours t ON t.id = b.tour_id`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b           models.Booking
		vehicleID   sql.NullInt64
		driverID    sql.NullInt64
		tourGuideID sql.NullInt64
	)
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.TourID,
		&vehicleID,
		&driverID,
		&b.StartDate,
		&b.EndDate,
		&b.NumberOfPeople,
		&b.TotalPrice,
		&b.Status,
		&b.BookingDate,
		&tourGuideID,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if vehicleID.Valid {
		b.VehicleID = &vehicleID.Int64
	}
	if driverID.Valid {
		b.DriverID = &driverID.Int64
	}
	if tourGuideID.Valid {
		b.TourGuideID = &tourGuideID.Int64
	}
	return b, nil
}

// GetByID fetches a booking together with its effective tour guide (resolved
// through the tour).
func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}
	return b, nil
}

// GetByIDForCustomer is the owner-scoped lookup. A booking that exists but
// belongs to another customer comes back as not found; existence of other
// customers' bookings must not leak.
func (r BookingRepository) GetByIDForCustomer(ctx context.Context, id, customerID int64) (models.Booking, error) {
	if id <= 0 || customerID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+bookingFrom+` WHERE b.id=? AND b.customer_id=? LIMIT 1`, id, customerID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}
	return b, nil
}

// Create inserts a new pending booking and returns its id.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings
			(customer_id, tour_id, vehicle_id, driver_id, start_date, end_date,
			 number_of_people, total_price, status, booking_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		b.CustomerID,
		b.TourID,
		nullableID(b.VehicleID),
		nullableID(b.DriverID),
		b.StartDate,
		b.EndDate,
		b.NumberOfPeople,
		b.TotalPrice,
		models.BookingPending,
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return res.LastInsertId()
}

// UpdateStatus writes the new status. Used only by the lifecycle manager,
// which has already validated the edge.
func (r BookingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE bookings SET status=? WHERE id=?`, status, id)
	return err
}

// UpdateStatusTx is the transactional variant, used when a booking move must
// commit together with a payment write.
func (r BookingRepository) UpdateStatusTx(tx *sql.Tx, id int64, status string) error {
	_, err := tx.Exec(`UPDATE bookings SET status=? WHERE id=?`, status, id)
	return err
}

// ListByCustomer returns the caller's own bookings, most recent first.
func (r BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+bookingFrom+` WHERE b.customer_id=? ORDER BY b.booking_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListAll returns every booking, most recent first. Staff tooling only.
func (r BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+bookingFrom+` ORDER BY b.booking_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullableID(id *int64) any {
	if id == nil || *id <= 0 {
		return nil
	}
	return *id
}
