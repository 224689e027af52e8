package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type assignTourGuideRequest struct {
	BookingID   int64 `json:"bookingId"`
	TourGuideID int64 `json:"tourGuideId"`
}

// AssignTourGuide writes a guide onto the booking's tour (employee with HR).
// The assignment applies to every booking of that tour.
// POST /api/employee/assign-tourguide
func (h *Handlers) AssignTourGuide(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req assignTourGuideRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.BookingID <= 0 || req.TourGuideID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "bookingId and tourGuideId are required")
		return
	}

	if err := h.staffSvc(c).AssignTourGuide(c.Request.Context(), actor, req.BookingID, req.TourGuideID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId":   req.BookingID,
		"tourGuideId": req.TourGuideID,
	})
}

// DeleteStaff removes a staff identity and its dependent rows atomically
// (admin only).
// DELETE /api/staff/:id
func (h *Handlers) DeleteStaff(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.staffSvc(c).DeleteStaff(c.Request.Context(), actor, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff member deleted"})
}
