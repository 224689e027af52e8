package handlers

import (
	"net/http"

	"tourbackend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListTours returns the catalogue. Public.
// GET /api/tours
func (h *Handlers) ListTours(c *gin.Context) {
	tours, err := repositories.TourRepository{DB: h.DB}.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tours": tours})
}

// GetTour returns one tour. Public.
// GET /api/tours/:id
func (h *Handlers) GetTour(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tour, err := repositories.TourRepository{DB: h.DB}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour": tour})
}
