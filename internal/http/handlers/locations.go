package handlers

import (
	"net/http"
	"strconv"

	"tourbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// UpdateLocation ingests one GPS sample from a booking participant.
// POST /api/location/update
func (h *Handlers) UpdateLocation(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req services.UpdateLocationInput
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.BookingID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid booking_id")
		return
	}

	id, err := h.locationSvc(c).Ingest(c.Request.Context(), actor, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location_id": id})
}

// TrackTourGuide returns the guide's latest position for a booking, or a
// null location when nothing has been reported yet.
// GET /api/location/track/:bookingId
func (h *Handlers) TrackTourGuide(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	bookingID, ok := idParam(c, "bookingId")
	if !ok {
		return
	}

	sample, err := h.locationSvc(c).LatestGuidePosition(c.Request.Context(), actor, bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if sample == nil {
		c.JSON(http.StatusOK, gin.H{"tourGuide": gin.H{"location": nil}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tourGuide": gin.H{"location": sample}})
}

// LocationHistory returns recent samples for a booking, newest first. The
// limit query param is clamped server-side.
// GET /api/location/history/:bookingId
func (h *Handlers) LocationHistory(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	bookingID, ok := idParam(c, "bookingId")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid limit")
			return
		}
		limit = n
	}

	samples, err := h.locationSvc(c).History(c.Request.Context(), actor, bookingID, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": samples})
}
