package repositories

import (
	"context"
	"database/sql"
	"errors"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
)

type TourRepository struct {
	DB *sql.DB
}

func (r TourRepository) GetByID(ctx context.Context, id int64) (models.Tour, error) {
	var (
		t       models.Tour
		guideID sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description,''), COALESCE(price,0), tour_guide_id
		FROM tours
		WHERE id=? LIMIT 1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.Price, &guideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tour{}, domain.NotFoundError{Resource: "tour"}
		}
		return models.Tour{}, err
	}
	if guideID.Valid {
		t.TourGuideID = &guideID.Int64
	}
	return t, nil
}

func (r TourRepository) List(ctx context.Context) ([]models.Tour, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description,''), COALESCE(price,0), tour_guide_id
		FROM tours
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Tour{}
	for rows.Next() {
		var (
			t       models.Tour
			guideID sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Price, &guideID); err != nil {
			return nil, err
		}
		if guideID.Valid {
			t.TourGuideID = &guideID.Int64
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AssignGuide writes the guide onto the tour. Assignment scope is every
// booking of this tour; the bookings table carries no guide column.
func (r TourRepository) AssignGuide(ctx context.Context, tourID, guideID int64) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE tours SET tour_guide_id=? WHERE id=?`, guideID, tourID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 when the value did not change; re-check existence.
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM tours WHERE id=?`, tourID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "tour"}
			}
			return err
		}
	}
	return nil
}
