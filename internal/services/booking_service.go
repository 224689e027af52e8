package services

import (
	"context"
	"fmt"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/repositories"
	"tourbackend/internal/utils"
)

// BookingService owns every write to bookings.status. Handlers never touch
// the column directly; strict start/end, staff updates and payment cascades
// all route through the same edge table.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	TourRepo    repositories.TourRepository
	RequestID   string
}

// NextStatus validates one move on the booking state machine and returns the
// resulting status. Pure; the transactional callers (webhook reconciliation,
// refund approval) use it to validate before writing inside their own tx.
func NextStatus(current string, event models.BookingEvent) (string, error) {
	if models.IsTerminal(current) {
		return "", domain.TransitionError{
			Entity: "booking",
			From:   current,
			Msg:    fmt.Sprintf("booking is already %s", current),
		}
	}

	switch event {
	case models.EventPaymentSuccess:
		if current != models.BookingPending {
			return "", domain.TransitionError{Entity: "booking", From: current, Msg: "only pending bookings can be confirmed"}
		}
		return models.BookingConfirmed, nil
	case models.EventStart:
		if current != models.BookingConfirmed {
			return "", domain.TransitionError{Entity: "booking", From: current, Msg: "only confirmed bookings can be started"}
		}
		return models.BookingInProgress, nil
	case models.EventEnd:
		if current != models.BookingInProgress {
			return "", domain.TransitionError{Entity: "booking", From: current, Msg: "only in-progress bookings can be completed"}
		}
		return models.BookingCompleted, nil
	case models.EventCancel:
		if current != models.BookingPending && current != models.BookingConfirmed {
			return "", domain.TransitionError{Entity: "booking", From: current, Msg: "only pending or confirmed bookings can be cancelled"}
		}
		return models.BookingCancelled, nil
	default:
		return "", domain.ValidationError{Field: "event", Msg: "unknown booking event"}
	}
}

// eventFor maps a requested target status onto a state-machine event. The
// generic staff update goes through here, so a target that would skip an edge
// (e.g. confirmed straight to completed) is rejected like any other illegal
// move.
func eventFor(target string) (models.BookingEvent, error) {
	switch target {
	case models.BookingConfirmed:
		return models.EventPaymentSuccess, nil
	case models.BookingInProgress:
		return models.EventStart, nil
	case models.BookingCompleted:
		return models.EventEnd, nil
	case models.BookingCancelled:
		return models.EventCancel, nil
	default:
		return "", domain.ValidationError{Field: "status", Msg: "unknown booking status"}
	}
}

// Transition loads the booking, checks the actor against the event, validates
// the edge and persists the new status.
func (s BookingService) Transition(ctx context.Context, actor domain.RequestContext, bookingID int64, event models.BookingEvent) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	switch event {
	case models.EventStart, models.EventEnd:
		if err := requireAssignedGuide(actor, booking); err != nil {
			return models.Booking{}, err
		}
	case models.EventCancel:
		if actor.Role != domain.RoleAdmin {
			return models.Booking{}, domain.ForbiddenError{Msg: "admin access required"}
		}
	}

	next, err := NextStatus(booking.Status, event)
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.BookingRepo.UpdateStatus(ctx, bookingID, next); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", string(event),
		fmt.Sprintf("booking_id=%d %s->%s actor=%d", bookingID, booking.Status, next, actor.UserID))

	booking.Status = next
	return booking, nil
}

// UpdateStatus is the generic staff-tooling entry point. The actor must be
// the booking's assigned tour guide, and the requested target must be one
// legal edge away from the current status.
func (s BookingService) UpdateStatus(ctx context.Context, actor domain.RequestContext, bookingID int64, target string) (models.Booking, error) {
	if !models.ValidBookingStatus(target) {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "unknown booking status"}
	}
	event, err := eventFor(target)
	if err != nil {
		return models.Booking{}, err
	}
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if err := requireAssignedGuide(actor, booking); err != nil {
		return models.Booking{}, err
	}

	next, err := NextStatus(booking.Status, event)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.UpdateStatus(ctx, bookingID, next); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "update_status",
		fmt.Sprintf("booking_id=%d %s->%s actor=%d", bookingID, booking.Status, next, actor.UserID))

	booking.Status = next
	return booking, nil
}

func requireAssignedGuide(actor domain.RequestContext, booking models.Booking) error {
	if actor.Role != domain.RoleTourGuide {
		return domain.ForbiddenError{Msg: "tour guide access required"}
	}
	if booking.TourGuideID == nil || *booking.TourGuideID != actor.UserID {
		return domain.ForbiddenError{Msg: "not the assigned tour guide for this booking"}
	}
	return nil
}

type CreateBookingInput struct {
	TourID         int64  `json:"tourId"`
	VehicleID      *int64 `json:"vehicleId,omitempty"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	NumberOfPeople int    `json:"numberOfPeople"`
}

// Create makes a new pending booking for the calling customer. Total price is
// derived from the tour's per-person price; clients never set it.
func (s BookingService) Create(ctx context.Context, actor domain.RequestContext, in CreateBookingInput) (models.Booking, error) {
	if actor.Role != domain.RoleCustomer {
		return models.Booking{}, domain.ForbiddenError{Msg: "customer access required"}
	}
	if in.NumberOfPeople <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "numberOfPeople", Msg: "must be at least 1"}
	}

	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "startDate", Msg: "expected YYYY-MM-DD", Err: err}
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "endDate", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if end.Before(start) {
		return models.Booking{}, domain.ValidationError{Field: "endDate", Msg: "end date before start date"}
	}

	tour, err := s.TourRepo.GetByID(ctx, in.TourID)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		CustomerID:     actor.UserID,
		TourID:         tour.ID,
		VehicleID:      in.VehicleID,
		StartDate:      utils.FormatDate(start),
		EndDate:        utils.FormatDate(end),
		NumberOfPeople: in.NumberOfPeople,
		TotalPrice:     tour.Price * float64(in.NumberOfPeople),
		Status:         models.BookingPending,
	}

	id, err := s.BookingRepo.Create(ctx, booking)
	if err != nil {
		return models.Booking{}, err
	}
	booking.ID = id
	booking.TourGuideID = tour.TourGuideID

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d customer_id=%d tour_id=%d", id, actor.UserID, tour.ID))
	return booking, nil
}

// GetForActor applies the visibility rules of the read path: customers see
// only their own bookings (misses come back as not found), staff and the
// booking's assigned guide or driver see any booking.
func (s BookingService) GetForActor(ctx context.Context, actor domain.RequestContext, bookingID int64) (models.Booking, error) {
	if actor.Role == domain.RoleCustomer {
		return s.BookingRepo.GetByIDForCustomer(ctx, bookingID, actor.UserID)
	}
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	switch actor.Role {
	case domain.RoleEmployee, domain.RoleAdmin:
		return booking, nil
	case domain.RoleTourGuide:
		if booking.TourGuideID != nil && *booking.TourGuideID == actor.UserID {
			return booking, nil
		}
	case domain.RoleDriver:
		if booking.DriverID != nil && *booking.DriverID == actor.UserID {
			return booking, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

// List returns the caller's own bookings for customers, everything for staff.
func (s BookingService) List(ctx context.Context, actor domain.RequestContext) ([]models.Booking, error) {
	if actor.Role == domain.RoleCustomer {
		return s.BookingRepo.ListByCustomer(ctx, actor.UserID)
	}
	if !actor.IsStaff() {
		return nil, domain.ForbiddenError{Msg: "staff access required"}
	}
	return s.BookingRepo.ListAll(ctx)
}
