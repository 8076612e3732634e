package handlers

import (
	"time"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/config"
	"traffic-hotspot-api/metrics"
	"traffic-hotspot-api/middleware"
	"traffic-hotspot-api/prediction"
	"traffic-hotspot-api/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the routes need. Cache may be disabled.
type Deps struct {
	Service  *prediction.Service
	Registry *bundle.Registry
	Store    bundle.Store
	Cache    *services.CacheService
	Auth     *services.AuthService
	CORS     config.CORSConfig
	CacheTTL time.Duration
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.SetupCORS(d.CORS))

	predictions := NewPredictionHandler(d.Service, d.Cache, d.CacheTTL)
	roads := NewRoadsHandler(d.Service)
	auth := NewAuthHandler(d.Auth)
	admin := NewAdminHandler(d.Registry, d.Store)

	r.GET("/health", Health(d.Service))
	r.POST("/predict_at", predictions.PredictAt)
	r.GET("/predict_at", predictions.PredictAt)
	r.GET("/road_segments", roads.GetRoadSegments)
	r.GET("/model_info", ModelInfo(d.Service))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/auth/token", auth.Token)

	adminGroup := r.Group("/admin", middleware.RequireRole(d.Auth, services.RoleAdmin))
	{
		adminGroup.POST("/reload", admin.Reload)
	}

	r.GET("/ws/bundles", BundleWebSocket(d.Cache, d.Auth))

	return r
}
