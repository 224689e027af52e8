package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
)

type EmployeeRepository struct {
	DB *sql.DB
}

func (r EmployeeRepository) GetByUserID(ctx context.Context, userID int64) (models.Employee, error) {
	var e models.Employee
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, COALESCE(position,''), COALESCE(department,''), COALESCE(hire_date,'')
		FROM employees
		WHERE user_id=? LIMIT 1`, userID).
		Scan(&e.UserID, &e.Position, &e.Department, &e.HireDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Employee{}, domain.NotFoundError{Resource: "employee"}
		}
		return models.Employee{}, err
	}
	return e, nil
}

// IsHR derives the HR capability from the employee's position/department.
// Pure lookup; the caller caches the answer only within one request.
func (r EmployeeRepository) IsHR(ctx context.Context, userID int64) (bool, error) {
	e, err := r.GetByUserID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return isHRPosition(e.Position) || isHRPosition(e.Department), nil
}

func isHRPosition(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "hr" || s == "human resources"
}
