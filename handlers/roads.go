package handlers

import (
	"net/http"
	"strconv"

	"traffic-hotspot-api/models"
	"traffic-hotspot-api/prediction"

	"github.com/gin-gonic/gin"
)

type RoadSegmentsResponse struct {
	Count    int              `json:"count"`
	Segments []models.Segment `json:"segments"`
	Bounds   *models.Bounds   `json:"bounds,omitempty"`
	CursorResponse
}

type RoadsHandler struct {
	svc *prediction.Service
}

func NewRoadsHandler(svc *prediction.Service) *RoadsHandler {
	return &RoadsHandler{svc: svc}
}

// GetRoadSegments lists the catalog. Count is the number of segments that
// match the optional lat/lng/radius_m filter, before paging; Bounds always
// cover the whole catalog.
func (h *RoadsHandler) GetRoadSegments(c *gin.Context) {
	cat, err := h.svc.Catalog()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "road segments data not loaded"})
		return
	}

	segments := cat.Segments()
	if c.Query("lat") != "" || c.Query("lng") != "" || c.Query("radius_m") != "" {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		radius, errRadius := strconv.ParseFloat(c.Query("radius_m"), 64)
		if errLat != nil || errLng != nil || errRadius != nil ||
			lat < -90 || lat > 90 || lng < -180 || lng > 180 || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lng and radius_m must be given together as valid numbers"})
			return
		}
		segments = cat.Near(lat, lng, radius)
	}
	if segments == nil {
		segments = []models.Segment{}
	}

	resp := RoadSegmentsResponse{Count: len(segments)}
	if b, ok := cat.Bounds(); ok {
		resp.Bounds = &b
	}

	p := ParsePagination(c)
	if p.After != nil {
		start := len(segments)
		for i, s := range segments {
			if s.CentrelineID > *p.After {
				start = i
				break
			}
		}
		segments = segments[start:]
	}
	if p.Limit > 0 && len(segments) > p.Limit {
		segments = segments[:p.Limit]
		resp.HasMore = true
		resp.NextCursor = strconv.FormatInt(segments[len(segments)-1].CentrelineID, 10)
	}
	resp.Segments = segments

	c.JSON(http.StatusOK, resp)
}
