// Package testutil provides shared fixtures for tests: a small trained-model
// bundle with predictable outputs and a grid of road segments.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Fixture model behaviour:
//
//	congestion: hour <= 6 Low, hour <= 15 Medium, otherwise High
//	vehicles:   mean of two trees
//	            tree A: weekend -5, weekday hour <= 15 120, weekday later 340
//	            tree B: 60 for the first schema id, 0 otherwise
const (
	ClassifierJSONTemplate = `{
	"n_features": %d,
	"classes": ["High", "Low", "Medium"],
	"trees": [{
		"children_left":  [1, -1, 3, -1, -1],
		"children_right": [2, -1, 4, -1, -1],
		"feature":        [0, -2, 0, -2, -2],
		"threshold":      [6.5, -2, 15.5, -2, -2],
		"value":          [[3, 3, 3], [0, 5, 0], [3, 0, 3], [0, 0, 4], [6, 0, 0]]
	}]
}`
	RegressorJSONTemplate = `{
	"n_features": %d,
	"trees": [{
		"children_left":  [1, 3, -1, -1, -1],
		"children_right": [2, 4, -1, -1, -1],
		"feature":        [3, 0, -2, -2, -2],
		"threshold":      [0.5, 15.5, -2, -2, -2],
		"value":          [[150], [200], [-5], [120], [340]]
	}, {
		"children_left":  [1, -1, -1],
		"children_right": [2, -1, -1],
		"feature":        [4, -2, -2],
		"threshold":      [0.5, -2, -2],
		"value":          [[10], [0], [60]]
	}]
}`
)

// Metadata is the training record written by BundleArtifacts.
var Metadata = map[string]any{
	"training_date":           "2024-11-01T10:00:00",
	"data_shape":              []int{120000, 12},
	"date_range":              map[string]string{"start": "2022-01-01 00:00:00", "end": "2024-09-30 23:45:00"},
	"unique_locations":        49,
	"classification_accuracy": 0.87,
	"regression_mae":          21.4,
	"regression_r2":           0.81,
	"feature_columns":         []string{"hour", "day_of_week", "month", "is_weekend", "centreline_id"},
	"classification_target":   "congestion_level",
	"regression_target":       "total_vehicles",
}

// GridIDs returns n*n segment ids starting at 1000.
func GridIDs(n int) []int64 {
	ids := make([]int64, 0, n*n)
	for i := 0; i < n*n; i++ {
		ids = append(ids, int64(1000+i))
	}
	return ids
}

// BundleArtifacts returns the four serialized artifacts for a bundle whose
// frozen schema is schemaIDs. schemaIDs must not be empty.
func BundleArtifacts(t testing.TB, schemaIDs []int64) map[string][]byte {
	t.Helper()
	width := 4 + len(schemaIDs)

	schema, err := json.Marshal(map[string]any{"feature": "centreline_id", "categories": schemaIDs})
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	meta, err := json.Marshal(Metadata)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}

	return map[string][]byte{
		"rf_congestion_cls.json": []byte(fmt.Sprintf(ClassifierJSONTemplate, width)),
		"rf_volume_reg.json":     []byte(fmt.Sprintf(RegressorJSONTemplate, width)),
		"category_schema.json":   schema,
		"training_metadata.json": meta,
	}
}

// WriteArtifacts writes artifacts into a fresh temp dir and returns it.
func WriteArtifacts(t testing.TB, artifacts map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range artifacts {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// WriteCatalogCSV writes a cleaned-counts CSV with one row per id laid out on
// a grid, plus a duplicate row for the first id with different values.
func WriteCatalogCSV(t testing.TB, ids []int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "svc_clean.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "datetime,centreline_id,location_name,longitude,latitude,total_vehicles,congestion_level\n")
	for i, id := range ids {
		lng := -79.40 + float64(i%7)*0.01
		lat := 43.64 + float64(i/7)*0.01
		fmt.Fprintf(f, "2024-01-01 08:00:00,%d,Segment %d,%.4f,%.4f,100,Medium\n", id, id, lng, lat)
	}
	if len(ids) > 0 {
		fmt.Fprintf(f, "2024-01-01 09:00:00,%d,Duplicate name,0,0,50,Low\n", ids[0])
	}
	return path
}
