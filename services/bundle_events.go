package services

import (
	"context"
	"log"
	"time"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/models"
)

// BundleChannel carries one JSON models.BundleLoad per load attempt.
const BundleChannel = "hotspot:bundles"

// BundleLoadFromEvent flattens a registry event into its audit record.
func BundleLoadFromEvent(ev bundle.Event) models.BundleLoad {
	rec := models.BundleLoad{
		Source:   ev.Source,
		Status:   models.BundleLoadOK,
		LoadedAt: ev.At,
	}
	if ev.Err != nil {
		rec.Status = models.BundleLoadFailed
		rec.Error = ev.Err.Error()
		return rec
	}
	if ev.Bundle != nil {
		rec.Version = ev.Bundle.Version
		rec.Categories = ev.Bundle.Schema.Len()
	}
	return rec
}

// BundleNotifier returns a registry observer that publishes every load
// attempt on BundleChannel. Publish errors are logged, never returned.
func (s *CacheService) BundleNotifier() func(bundle.Event) {
	return func(ev bundle.Event) {
		if !s.Available() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Publish(ctx, BundleChannel, BundleLoadFromEvent(ev)); err != nil {
			log.Printf("bundle event publish failed: %v", err)
		}
	}
}
