package services

import (
	"context"
	"fmt"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/repositories"
	"tourbackend/internal/utils"
)

// historyLimitMax bounds history responses regardless of the client's limit.
const historyLimitMax = 200

const historyLimitDefault = 50

// LocationService handles append-only GPS ingestion and participant-scoped
// retrieval.
type LocationService struct {
	LocationRepo repositories.LocationRepository
	BookingRepo  repositories.BookingRepository
	RequestID    string
}

type UpdateLocationInput struct {
	BookingID int64    `json:"booking_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

// Ingest validates the coordinate envelope, checks the reporter is a
// participant of the booking and appends one row.
func (s LocationService) Ingest(ctx context.Context, actor domain.RequestContext, in UpdateLocationInput) (int64, error) {
	if !models.ValidCoordinates(in.Latitude, in.Longitude) {
		return 0, domain.ValidationError{Field: "coordinates", Msg: "latitude must be in [-90,90] and longitude in [-180,180]"}
	}

	booking, err := s.BookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		return 0, err
	}
	if !isParticipant(actor, booking) {
		return 0, domain.ForbiddenError{Msg: "not a participant of this booking"}
	}

	id, err := s.LocationRepo.Insert(ctx, models.LocationSample{
		BookingID: booking.ID,
		UserID:    actor.UserID,
		Role:      actor.Role,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Accuracy:  in.Accuracy,
		Altitude:  in.Altitude,
		Speed:     in.Speed,
		Heading:   in.Heading,
	})
	if err != nil {
		return 0, err
	}

	utils.LogEvent(s.RequestID, "location", "ingest",
		fmt.Sprintf("location_id=%d booking_id=%d role=%s", id, booking.ID, actor.Role))
	return id, nil
}

// LatestGuidePosition returns the tour guide's most recent fix for the
// booking, or nil when the guide has not reported yet.
func (s LocationService) LatestGuidePosition(ctx context.Context, actor domain.RequestContext, bookingID int64) (*models.LocationSample, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, booking) {
		return nil, domain.ForbiddenError{Msg: "not a participant of this booking"}
	}

	sample, err := s.LocationRepo.LatestByRole(ctx, bookingID, domain.RoleTourGuide)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}

// History returns the booking's samples most-recent-first. The limit is
// clamped server-side; a client cannot widen the window past historyLimitMax.
func (s LocationService) History(ctx context.Context, actor domain.RequestContext, bookingID int64, limit int) ([]models.LocationSample, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, booking) {
		return nil, domain.ForbiddenError{Msg: "not a participant of this booking"}
	}

	if limit <= 0 {
		limit = historyLimitDefault
	}
	if limit > historyLimitMax {
		limit = historyLimitMax
	}
	return s.LocationRepo.History(ctx, bookingID, limit)
}

// isParticipant: the customer who owns the booking, the tour's assigned
// guide, or the assigned driver.
func isParticipant(actor domain.RequestContext, booking models.Booking) bool {
	switch actor.Role {
	case domain.RoleCustomer:
		return booking.CustomerID == actor.UserID
	case domain.RoleTourGuide:
		return booking.TourGuideID != nil && *booking.TourGuideID == actor.UserID
	case domain.RoleDriver:
		return booking.DriverID != nil && *booking.DriverID == actor.UserID
	default:
		return false
	}
}
