package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// handleServiceError maps curation errors to the failure acknowledgement.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(c, http.StatusForbidden, msgUnauthorized)
	case errors.Is(err, domain.ErrRevisionConflict):
		respondError(c, http.StatusConflict, "Pinned navigation changed since it was loaded")
	case errors.Is(err, domain.ErrInvalidReference):
		respondError(c, http.StatusBadRequest, "Invalid content id")
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "Content not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		respondError(c, http.StatusServiceUnavailable, "Content store unavailable")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
