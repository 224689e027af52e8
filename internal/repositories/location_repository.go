package repositories

import (
	"context"
	"database/sql"
	"errors"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
)

type LocationRepository struct {
	DB *sql.DB
}

// Insert appends one sample and returns the new row id. Rows are never
// updated or deleted.
func (r LocationRepository) Insert(ctx context.Context, s models.LocationSample) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO locations
			(booking_id, user_id, role, latitude, longitude, accuracy, altitude, speed, heading, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		s.BookingID,
		s.UserID,
		s.Role,
		s.Latitude,
		s.Longitude,
		nullableFloat(s.Accuracy),
		nullableFloat(s.Altitude),
		nullableFloat(s.Speed),
		nullableFloat(s.Heading),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const locationColumns = `
	id, booking_id, user_id, COALESCE(role,''),
	latitude, longitude, accuracy, altitude, speed, heading, recorded_at`

func scanLocation(row interface{ Scan(...any) error }) (models.LocationSample, error) {
	var (
		s                                 models.LocationSample
		accuracy, altitude, speed, heading sql.NullFloat64
	)
	err := row.Scan(
		&s.ID, &s.BookingID, &s.UserID, &s.Role,
		&s.Latitude, &s.Longitude,
		&accuracy, &altitude, &speed, &heading,
		&s.RecordedAt,
	)
	if err != nil {
		return models.LocationSample{}, err
	}
	if accuracy.Valid {
		s.Accuracy = &accuracy.Float64
	}
	if altitude.Valid {
		s.Altitude = &altitude.Float64
	}
	if speed.Valid {
		s.Speed = &speed.Float64
	}
	if heading.Valid {
		s.Heading = &heading.Float64
	}
	return s, nil
}

// LatestByRole returns the most recent fix reported for the booking by a user
// with the given role, or NotFound when nothing has been reported yet.
func (r LocationRepository) LatestByRole(ctx context.Context, bookingID int64, role string) (models.LocationSample, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+locationColumns+`
		FROM locations
		WHERE booking_id=? AND role=?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`, bookingID, role)
	s, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocationSample{}, domain.NotFoundError{Resource: "location"}
		}
		return models.LocationSample{}, err
	}
	return s, nil
}

// History returns samples most-recent-first, bounded by limit.
func (r LocationRepository) History(ctx context.Context, bookingID int64, limit int) ([]models.LocationSample, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+locationColumns+`
		FROM locations
		WHERE booking_id=?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, bookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LocationSample{}
	for rows.Next() {
		s, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
