package services

import (
	"context"
	"database/sql"
	"fmt"

	intdb "tourbackend/internal/db"
	"tourbackend/internal/domain"
	"tourbackend/internal/repositories"
	"tourbackend/internal/utils"
)

// StaffService covers guide assignment and staff account removal.
type StaffService struct {
	DB           *sql.DB
	BookingRepo  repositories.BookingRepository
	TourRepo     repositories.TourRepository
	UserRepo     repositories.UserRepository
	EmployeeRepo repositories.EmployeeRepository
	StaffRepo    repositories.StaffRepository
	RequestID    string
}

// RequireHR answers the composite employee+HR capability. The position
// lookup runs at most once per request; nothing is cached across requests.
func (s StaffService) RequireHR(ctx context.Context, actor domain.RequestContext) error {
	if actor.Role != domain.RoleEmployee {
		return domain.ForbiddenError{Msg: "HR access required"}
	}
	isHR, err := s.EmployeeRepo.IsHR(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !isHR {
		return domain.ForbiddenError{Msg: "HR access required"}
	}
	return nil
}

// AssignTourGuide writes the guide onto the booking's tour. The guide then
// applies to every booking of that tour, which is the intended assignment
// scope.
func (s StaffService) AssignTourGuide(ctx context.Context, actor domain.RequestContext, bookingID, guideID int64) error {
	if err := s.RequireHR(ctx, actor); err != nil {
		return err
	}

	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	role, err := s.UserRepo.RoleOf(ctx, guideID)
	if err != nil {
		return err
	}
	if role != domain.RoleTourGuide {
		return domain.ValidationError{Field: "tourGuideId", Msg: "user is not a tour guide"}
	}

	if err := s.TourRepo.AssignGuide(ctx, booking.TourID, guideID); err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "staff", "assign_tourguide",
		fmt.Sprintf("booking_id=%d tour_id=%d guide_id=%d actor=%d", bookingID, booking.TourID, guideID, actor.UserID))
	return nil
}

// DeleteStaff removes a staff identity and everything hanging off it: vehicle
// and tour references are nulled, the subtype row, employee row and user row
// deleted, all in one transaction. A failure anywhere leaves every row as it
// was.
func (s StaffService) DeleteStaff(ctx context.Context, actor domain.RequestContext, userID int64) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ForbiddenError{Msg: "admin access required"}
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	switch user.Role {
	case domain.RoleEmployee, domain.RoleDriver, domain.RoleTourGuide:
	default:
		return domain.ValidationError{Field: "userId", Msg: "user is not a staff member"}
	}

	err = intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.StaffRepo.ClearVehicleDriverTx(tx, userID); err != nil {
			return err
		}
		if err := s.StaffRepo.ClearTourGuideTx(tx, userID); err != nil {
			return err
		}
		if err := s.StaffRepo.DeleteSubtypeTx(tx, user.Role, userID); err != nil {
			return err
		}
		if err := s.StaffRepo.DeleteEmployeeTx(tx, userID); err != nil {
			return err
		}
		return s.StaffRepo.DeleteUserTx(tx, userID)
	})
	if err != nil {
		return domain.InternalError{Msg: "staff deletion failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "staff", "delete",
		fmt.Sprintf("user_id=%d role=%s actor=%d", userID, user.Role, actor.UserID))
	return nil
}
