package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"traffic-hotspot-api/metrics"
	"traffic-hotspot-api/models"
	"traffic-hotspot-api/prediction"
	"traffic-hotspot-api/services"

	"github.com/gin-gonic/gin"
)

const ModelVersionHeader = "X-Model-Version"

type PredictionRequest struct {
	Datetime string `json:"datetime" form:"datetime"`
}

type PredictionHandler struct {
	svc   *prediction.Service
	cache *services.CacheService
	ttl   time.Duration
}

func NewPredictionHandler(svc *prediction.Service, cache *services.CacheService, ttl time.Duration) *PredictionHandler {
	return &PredictionHandler{svc: svc, cache: cache, ttl: ttl}
}

// CacheKey names a cached result list. Keys include the bundle version so a
// reload never serves stale predictions.
func CacheKey(version string, ts time.Time) string {
	return fmt.Sprintf("predict_at:%s:%s", version, ts.Format(time.RFC3339))
}

// PredictAt serves POST {"datetime": ...} and GET ?datetime=.
func (h *PredictionHandler) PredictAt(c *gin.Context) {
	var req PredictionRequest
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}

	ready := h.svc.Readiness()
	if !ready.ModelsLoaded || ready.Status != models.StatusReady {
		respondError(c, prediction.ErrNotReady)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"datetime\": \"...\"}"})
		return
	}

	ts, err := h.svc.ParseTimestamp(req.Datetime)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	key := CacheKey(ready.ModelVersion, ts)
	var cached []models.PredictionResult
	if found, err := h.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("prediction cache read failed: key=%s err=%v", key, err)
	} else if found {
		metrics.CacheHits.Inc()
		c.Header(ModelVersionHeader, ready.ModelVersion)
		c.JSON(http.StatusOK, cached)
		return
	}

	batch, err := h.svc.PredictTime(ctx, ts)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache.Available() {
		go func(key string, results []models.PredictionResult) {
			if err := h.cache.Set(context.Background(), key, results, h.ttl); err != nil {
				log.Printf("prediction cache write failed: key=%s err=%v", key, err)
			}
		}(CacheKey(batch.ModelVersion, batch.At), batch.Results)
	}

	c.Header(ModelVersionHeader, batch.ModelVersion)
	c.JSON(http.StatusOK, batch.Results)
}
