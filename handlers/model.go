package handlers

import (
	"net/http"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/prediction"

	"github.com/gin-gonic/gin"
)

type ModelInfoResponse struct {
	bundle.Metadata
	ModelVersion string `json:"model_version"`
}

func ModelInfo(svc *prediction.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta, version, err := svc.Metadata()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ModelInfoResponse{Metadata: meta, ModelVersion: version})
	}
}
