package handlers

import (
	"errors"
	"net/http"

	"traffic-hotspot-api/prediction"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, prediction.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, prediction.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
