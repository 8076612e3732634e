// Package catalog holds the fixed set of road segments predictions are made for.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/golang/geo/s2"

	"traffic-hotspot-api/models"
)

// EarthRadiusMeters is the mean Earth radius used for distances.
const EarthRadiusMeters = 6371008.8

// Source yields historical count rows in their original order.
type Source interface {
	Records(ctx context.Context) ([]models.Segment, error)
	Describe() string
}

// Catalog is an immutable set of segments sorted by ascending id.
type Catalog struct {
	segments []models.Segment
	index    map[int64]int
}

// Build keeps one segment per id. When an id appears more than once, the
// first row's name and coordinates win.
func Build(records []models.Segment) *Catalog {
	seen := make(map[int64]struct{}, len(records))
	segments := make([]models.Segment, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.CentrelineID]; ok {
			continue
		}
		seen[r.CentrelineID] = struct{}{}
		segments = append(segments, r)
	}
	slices.SortFunc(segments, func(a, b models.Segment) int {
		return cmp.Compare(a.CentrelineID, b.CentrelineID)
	})

	index := make(map[int64]int, len(segments))
	for i, s := range segments {
		index[s.CentrelineID] = i
	}
	return &Catalog{segments: segments, index: index}
}

// Load reads every record from src and builds the catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", src.Describe(), err)
	}
	c := Build(records)
	log.Printf("catalog loaded: source=%s rows=%d segments=%d", src.Describe(), len(records), c.Len())
	return c, nil
}

func (c *Catalog) Len() int { return len(c.segments) }

// Segments returns a copy of all segments in ascending id order.
func (c *Catalog) Segments() []models.Segment {
	return slices.Clone(c.segments)
}

// IDs returns segment ids in ascending order.
func (c *Catalog) IDs() []int64 {
	ids := make([]int64, len(c.segments))
	for i, s := range c.segments {
		ids[i] = s.CentrelineID
	}
	return ids
}

func (c *Catalog) Lookup(id int64) (models.Segment, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Segment{}, false
	}
	return c.segments[i], true
}

// Bounds returns the rectangle covering every segment, or false when the
// catalog is empty.
func (c *Catalog) Bounds() (models.Bounds, bool) {
	if len(c.segments) == 0 {
		return models.Bounds{}, false
	}
	rect := s2.EmptyRect()
	for _, s := range c.segments {
		rect = rect.AddPoint(s2.LatLngFromDegrees(s.Latitude, s.Longitude))
	}
	return models.Bounds{
		MinLat: rect.Lo().Lat.Degrees(),
		MinLng: rect.Lo().Lng.Degrees(),
		MaxLat: rect.Hi().Lat.Degrees(),
		MaxLng: rect.Hi().Lng.Degrees(),
	}, true
}

// Near returns segments within radiusMeters of (lat, lng), in id order.
func (c *Catalog) Near(lat, lng, radiusMeters float64) []models.Segment {
	center := s2.LatLngFromDegrees(lat, lng)
	var out []models.Segment
	for _, s := range c.segments {
		d := center.Distance(s2.LatLngFromDegrees(s.Latitude, s.Longitude)).Radians() * EarthRadiusMeters
		if d <= radiusMeters {
			out = append(out, s)
		}
	}
	return out
}
