// Package prediction scores every catalog segment at a timestamp with the
// currently published model bundle.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/catalog"
	"traffic-hotspot-api/features"
	"traffic-hotspot-api/metrics"
	"traffic-hotspot-api/models"
)

// Batch is the outcome of one query.
type Batch struct {
	ModelVersion string                    `json:"model_version"`
	At           time.Time                 `json:"datetime"`
	Results      []models.PredictionResult `json:"predictions"`
}

// Service answers prediction queries. All state it reads per query is
// immutable once published, so concurrent queries take no locks.
type Service struct {
	bundles *bundle.Registry
	catalog atomic.Pointer[catalog.Catalog]
	loc     *time.Location

	catalogMu  sync.Mutex
	catalogSrc catalog.Source
}

// NewService serves predictions from whatever bundle bundles holds. Calendar
// features come from the timestamp as written; a non-nil loc converts
// timestamps that carry an offset into loc first.
func NewService(bundles *bundle.Registry, loc *time.Location) *Service {
	return &Service{bundles: bundles, loc: loc}
}

// SetCatalog publishes the segment catalog.
func (s *Service) SetCatalog(c *catalog.Catalog) {
	s.catalog.Store(c)
	if c != nil {
		metrics.CatalogSegments.Set(float64(c.Len()))
	}
}

// SetCatalogSource records where LoadCatalog reads segments from.
func (s *Service) SetCatalogSource(src catalog.Source) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	s.catalogSrc = src
}

// LoadCatalog reads the catalog source and publishes the result. A catalog
// that is already published is left as is.
func (s *Service) LoadCatalog(ctx context.Context) error {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if s.catalog.Load() != nil {
		return nil
	}
	if s.catalogSrc == nil {
		return errors.New("no catalog source configured")
	}
	c, err := catalog.Load(ctx, s.catalogSrc)
	if err != nil {
		return err
	}
	s.SetCatalog(c)
	return nil
}

// RetryCatalog is a registry observer: after every bundle load attempt it
// retries a catalog that never loaded.
func (s *Service) RetryCatalog(ev bundle.Event) {
	if s.catalog.Load() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.LoadCatalog(ctx); err != nil {
		log.Printf("catalog retry failed, still unready: %v", err)
	}
}

// Catalog returns the published catalog or ErrNotReady.
func (s *Service) Catalog() (*catalog.Catalog, error) {
	c := s.catalog.Load()
	if c == nil {
		return nil, ErrNotReady
	}
	return c, nil
}

// Metadata returns the training record of the current bundle.
func (s *Service) Metadata() (bundle.Metadata, string, error) {
	b := s.bundles.Current()
	if b == nil {
		return bundle.Metadata{}, "", ErrNotReady
	}
	return b.Metadata, b.Version, nil
}

// Readiness reports the current state; it never fails.
func (s *Service) Readiness() models.Readiness {
	b := s.bundles.Current()
	c := s.catalog.Load()

	r := models.Readiness{
		Status:       models.StatusUnready,
		Message:      "Models not loaded",
		ModelsLoaded: b != nil,
	}
	if c != nil {
		r.SegmentCount = c.Len()
	}
	if b != nil {
		r.ModelVersion = b.Version
	}
	switch {
	case b != nil && c != nil:
		r.Status = models.StatusReady
		r.Message = "API is running"
	case b != nil:
		r.Message = "Road segments not loaded"
	}
	return r
}

// ParseTimestamp parses raw, converting offset timestamps into the service's
// reference location when one is set.
func (s *Service) ParseTimestamp(raw string) (time.Time, error) {
	return ParseTimestamp(raw, s.loc)
}

// PredictAt parses raw and predicts every catalog segment at that time.
func (s *Service) PredictAt(ctx context.Context, raw string) (*Batch, error) {
	b, c := s.bundles.Current(), s.catalog.Load()
	if b == nil || c == nil {
		return nil, ErrNotReady
	}
	ts, err := s.ParseTimestamp(raw)
	if err != nil {
		return nil, err
	}
	return s.predict(ctx, b, c, ts)
}

// PredictTime predicts every catalog segment at ts, using ts's own calendar
// fields.
func (s *Service) PredictTime(ctx context.Context, ts time.Time) (*Batch, error) {
	b, c := s.bundles.Current(), s.catalog.Load()
	if b == nil || c == nil {
		return nil, ErrNotReady
	}
	return s.predict(ctx, b, c, ts)
}

func (s *Service) predict(ctx context.Context, b *bundle.Bundle, c *catalog.Catalog, ts time.Time) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.QueryDuration.Observe(time.Since(start).Seconds())
	}()

	results, err := Predict(b, c, ts)
	if err != nil {
		metrics.PredictionsFailed.Inc()
		log.Printf("prediction failed: datetime=%s version=%s err=%v", ts.Format(time.RFC3339), b.Version, err)
		return nil, err
	}
	metrics.PredictionsServed.Add(float64(len(results)))
	log.Printf("generated %d predictions: datetime=%s version=%s", len(results), ts.Format(time.RFC3339), b.Version)
	return &Batch{ModelVersion: b.Version, At: ts, Results: results}, nil
}

// Predict encodes every segment of c at ts, runs both models once over the
// whole batch and pairs outputs with segments by the encoder's row order.
// It returns one result per segment or an error, never a partial list.
func Predict(b *bundle.Bundle, c *catalog.Catalog, ts time.Time) (results []models.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = &FailureError{Stage: "inference", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	X, ids := features.Encode(ts, c.IDs(), b.Schema)
	if len(ids) == 0 {
		return []models.PredictionResult{}, nil
	}

	labels, err := b.Classifier.Predict(X)
	if err != nil {
		return nil, &FailureError{Stage: "classification", Err: err}
	}
	counts, err := b.Regressor.Predict(X)
	if err != nil {
		return nil, &FailureError{Stage: "regression", Err: err}
	}
	if len(labels) != len(ids) || len(counts) != len(ids) {
		return nil, &FailureError{Stage: "assembly", Err: fmt.Errorf(
			"got %d labels and %d counts for %d segments", len(labels), len(counts), len(ids))}
	}

	results = make([]models.PredictionResult, len(ids))
	for i, id := range ids {
		seg, ok := c.Lookup(id)
		if !ok {
			return nil, &FailureError{Stage: "assembly", Err: fmt.Errorf("segment %d not in catalog", id)}
		}
		level, err := models.ParseCongestionLevel(labels[i])
		if err != nil {
			return nil, &FailureError{Stage: "classification", Err: err}
		}
		vehicles, err := vehicleCount(counts[i])
		if err != nil {
			return nil, &FailureError{Stage: "regression", Err: fmt.Errorf("segment %d: %w", id, err)}
		}
		results[i] = models.PredictionResult{
			CentrelineID:      seg.CentrelineID,
			LocationName:      seg.LocationName,
			Longitude:         seg.Longitude,
			Latitude:          seg.Latitude,
			CongestionLevel:   level,
			PredictedVehicles: vehicles,
		}
	}
	return results, nil
}

// maxVehicles bounds a single segment's count; larger outputs come from a
// broken model, not from traffic.
const maxVehicles = math.MaxInt32

var (
	errNonFinite = errors.New("non-finite vehicle count")
	errTooLarge  = fmt.Errorf("vehicle count above %d", maxVehicles)
)

// vehicleCount rounds half to even and floors at zero.
func vehicleCount(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	r := math.RoundToEven(v)
	if r > maxVehicles {
		return 0, errTooLarge
	}
	if r < 0 {
		return 0, nil
	}
	return int(r), nil
}
