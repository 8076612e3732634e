package handlers

import (
	"net/http"

	"traffic-hotspot-api/prediction"

	"github.com/gin-gonic/gin"
)

// Health always answers 200; the body says whether predictions can be served.
func Health(svc *prediction.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Readiness())
	}
}
