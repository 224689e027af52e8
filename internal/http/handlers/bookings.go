package handlers

import (
	"net/http"

	"tourbackend/internal/domain/models"
	"tourbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateBooking makes a new pending booking for the calling customer.
// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := h.bookingSvc(c).Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListBookings returns the caller's bookings (customers) or all (staff).
// GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	bookings, err := h.bookingSvc(c).List(c.Request.Context(), actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns one booking, visibility-scoped to the caller.
// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingSvc(c).GetForActor(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type tourTransitionRequest struct {
	BookingID int64 `json:"bookingId"`
}

// StartTour moves a confirmed booking to in-progress. Only the assigned tour
// guide may call it.
// POST /api/tour/start
func (h *Handlers) StartTour(c *gin.Context) {
	h.transitionTour(c, models.EventStart)
}

// EndTour completes an in-progress booking.
// POST /api/tour/end
func (h *Handlers) EndTour(c *gin.Context) {
	h.transitionTour(c, models.EventEnd)
}

func (h *Handlers) transitionTour(c *gin.Context, event models.BookingEvent) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req tourTransitionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.BookingID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid bookingId")
		return
	}

	booking, err := h.bookingSvc(c).Transition(c.Request.Context(), actor, req.BookingID, event)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus is the generic staff-tooling update. It routes through
// the same state machine as start/end; skipping edges is rejected.
// PUT /api/bookings/:id/status
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := h.bookingSvc(c).UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
}

// CancelBooking is the admin cancel path.
// POST /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingSvc(c).Transition(c.Request.Context(), actor, id, models.EventCancel)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
}
