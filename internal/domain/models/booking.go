package models

import "time"

// Booking statuses. Terminal states accept no further mutation.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// BookingEvent names a requested move on the booking state machine.
type BookingEvent string

const (
	EventPaymentSuccess BookingEvent = "payment_success"
	EventStart          BookingEvent = "start"
	EventEnd            BookingEvent = "end"
	EventCancel         BookingEvent = "cancel"
)

type Booking struct {
	ID             int64      `json:"id"`
	CustomerID     int64      `json:"customerId"`
	TourID         int64      `json:"tourId"`
	VehicleID      *int64     `json:"vehicleId,omitempty"`
	DriverID       *int64     `json:"driverId,omitempty"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	NumberOfPeople int        `json:"numberOfPeople"`
	TotalPrice     float64    `json:"totalPrice"`
	Status         string     `json:"status"`
	BookingDate    time.Time  `json:"bookingDate"`
	// TourGuideID is resolved through the tour, not stored on the booking row.
	// Reassigning a tour's guide changes the effective guide of every booking
	// of that tour.
	TourGuideID *int64 `json:"tourGuideId,omitempty"`
}

// IsTerminal reports whether status accepts no further transition.
func IsTerminal(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}

// ValidBookingStatus reports whether s is one of the enumerated statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}
