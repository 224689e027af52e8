package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetBookingInvoicePDF returns the booking invoice (inline).
// GET /api/bookings/:id/invoice
func (h *Handlers) GetBookingInvoicePDF(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	pdfBytes, filename, err := h.docsSvc(c).GenerateInvoice(c.Request.Context(), actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
