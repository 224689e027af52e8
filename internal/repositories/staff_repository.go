package repositories

import (
	"database/sql"
	"fmt"
)

// StaffRepository groups the statements of the staff-deletion cascade. All
// methods take the caller's transaction; the cascade must commit or roll back
// as one unit.
type StaffRepository struct {
	DB *sql.DB
}

func (r StaffRepository) ClearVehicleDriverTx(tx *sql.Tx, driverID int64) error {
	if _, err := tx.Exec(`UPDATE vehicles SET driver_id=NULL WHERE driver_id=?`, driverID); err != nil {
		return fmt.Errorf("clear vehicle driver refs: %w", err)
	}
	return nil
}

func (r StaffRepository) ClearTourGuideTx(tx *sql.Tx, guideID int64) error {
	if _, err := tx.Exec(`UPDATE tours SET tour_guide_id=NULL WHERE tour_guide_id=?`, guideID); err != nil {
		return fmt.Errorf("clear tour guide refs: %w", err)
	}
	return nil
}

// DeleteSubtypeTx removes the role-specific row (drivers or tour_guides).
// Roles without a subtype table are a no-op.
func (r StaffRepository) DeleteSubtypeTx(tx *sql.Tx, role string, userID int64) error {
	var table string
	switch role {
	case "driver":
		table = "drivers"
	case "tourguide":
		table = "tour_guides"
	default:
		return nil
	}
	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("delete %s row: %w", table, err)
	}
	return nil
}

func (r StaffRepository) DeleteEmployeeTx(tx *sql.Tx, userID int64) error {
	if _, err := tx.Exec(`DELETE FROM employees WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("delete employee row: %w", err)
	}
	return nil
}

func (r StaffRepository) DeleteUserTx(tx *sql.Tx, userID int64) error {
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return fmt.Errorf("delete user row: %w", err)
	}
	return nil
}
