package handlers

import (
	"net/http"
	"strconv"

	"tourbackend/internal/domain"
	"tourbackend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty request body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid request payload")
		return false
	}
	return true
}

// identityOrAbort pulls the authenticated identity; the Auth middleware
// guarantees it is present on protected routes.
func identityOrAbort(c *gin.Context) (domain.RequestContext, bool) {
	actor, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return domain.RequestContext{}, false
	}
	return actor, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name)
		return 0, false
	}
	return id, true
}
