// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PredictionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotspot_predictions_served_total",
		Help: "Total number of segment predictions returned.",
	})
	PredictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotspot_prediction_queries_failed_total",
		Help: "Total number of prediction queries that failed inside the models.",
	})
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotspot_prediction_cache_hits_total",
		Help: "Total number of prediction queries answered from Redis.",
	})
	BundleLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotspot_bundle_loads_total",
		Help: "Total number of model bundle load attempts by status.",
	}, []string{"status"})
	BundleLoadedAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotspot_bundle_loaded_timestamp_seconds",
		Help: "Unix time the current model bundle was published.",
	})
	CatalogSegments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotspot_catalog_segments",
		Help: "Number of road segments in the catalog.",
	})
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hotspot_prediction_query_duration_seconds",
		Help:    "Duration of one prediction query across all segments.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBundleLoad counts a load attempt and, on success, stamps its time.
func RecordBundleLoad(err error, at time.Time) {
	if err != nil {
		BundleLoads.WithLabelValues("failed").Inc()
		return
	}
	BundleLoads.WithLabelValues("ok").Inc()
	BundleLoadedAt.Set(float64(at.Unix()))
}
