// Package bundle loads the trained models, their frozen category schema and
// training metadata as one immutable unit, and publishes it atomically.
package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"traffic-hotspot-api/features"
	"traffic-hotspot-api/forest"
	"traffic-hotspot-api/models"
)

// Artifact names inside a store.
const (
	ClassifierArtifact = "rf_congestion_cls.json"
	RegressorArtifact  = "rf_volume_reg.json"
	SchemaArtifact     = "category_schema.json"
	MetadataArtifact   = "training_metadata.json"
)

// Artifacts lists every unit a bundle needs, in load order.
var Artifacts = []string{ClassifierArtifact, RegressorArtifact, SchemaArtifact, MetadataArtifact}

// DateRange is the span of the training data.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Metadata is the training record saved next to the models.
type Metadata struct {
	TrainingDate           string    `json:"training_date"`
	DataShape              []int     `json:"data_shape"`
	DateRange              DateRange `json:"date_range"`
	UniqueLocations        int       `json:"unique_locations"`
	ClassificationAccuracy float64   `json:"classification_accuracy"`
	RegressionMAE          float64   `json:"regression_mae"`
	RegressionR2           float64   `json:"regression_r2"`
	FeatureColumns         []string  `json:"feature_columns"`
	ClassificationTarget   string    `json:"classification_target"`
	RegressionTarget       string    `json:"regression_target"`
}

type schemaFile struct {
	Feature    string  `json:"feature"`
	Categories []int64 `json:"categories"`
}

// Bundle is a fully loaded, read-only model generation.
type Bundle struct {
	Classifier *forest.Classifier
	Regressor  *forest.Regressor
	Schema     *features.Schema
	Metadata   Metadata

	Version  string
	Source   string
	LoadedAt time.Time
}

// LoadError reports which artifact stopped a load.
type LoadError struct {
	Artifact string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("load bundle: %v", e.Err)
	}
	return fmt.Sprintf("load bundle: %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads all four artifacts from store and cross-checks them. It either
// returns a complete bundle or a *LoadError; never a partial bundle. A
// SnapshotStore is read in one view so the four artifacts share a generation.
func Load(ctx context.Context, store Store) (*Bundle, error) {
	if snap, ok := store.(SnapshotStore); ok {
		raw, err := snap.GetAll(ctx, Artifacts)
		if err != nil {
			return nil, &LoadError{Err: err}
		}
		for _, name := range Artifacts {
			if _, ok := raw[name]; !ok {
				return nil, &LoadError{Artifact: name, Err: ErrArtifactNotFound}
			}
		}
		return decode(raw, store.Describe())
	}

	raw := make(map[string][]byte, len(Artifacts))
	for _, name := range Artifacts {
		data, err := store.Get(ctx, name)
		if err != nil {
			return nil, &LoadError{Artifact: name, Err: err}
		}
		raw[name] = data
	}
	return decode(raw, store.Describe())
}

// Decode builds a bundle from in-memory artifacts keyed by artifact name.
func Decode(raw map[string][]byte) (*Bundle, error) {
	for _, name := range Artifacts {
		if _, ok := raw[name]; !ok {
			return nil, &LoadError{Artifact: name, Err: ErrArtifactNotFound}
		}
	}
	return decode(raw, "memory")
}

func decode(raw map[string][]byte, source string) (*Bundle, error) {
	clf, err := forest.DecodeClassifier(raw[ClassifierArtifact])
	if err != nil {
		return nil, &LoadError{Artifact: ClassifierArtifact, Err: err}
	}
	reg, err := forest.DecodeRegressor(raw[RegressorArtifact])
	if err != nil {
		return nil, &LoadError{Artifact: RegressorArtifact, Err: err}
	}

	var sf schemaFile
	if err := json.Unmarshal(raw[SchemaArtifact], &sf); err != nil {
		return nil, &LoadError{Artifact: SchemaArtifact, Err: err}
	}
	schema, err := features.NewSchema(sf.Categories)
	if err != nil {
		return nil, &LoadError{Artifact: SchemaArtifact, Err: err}
	}

	var meta Metadata
	if err := json.Unmarshal(raw[MetadataArtifact], &meta); err != nil {
		return nil, &LoadError{Artifact: MetadataArtifact, Err: err}
	}

	if err := checkAlignment(clf, reg, schema); err != nil {
		return nil, &LoadError{Err: err}
	}

	return &Bundle{
		Classifier: clf,
		Regressor:  reg,
		Schema:     schema,
		Metadata:   meta,
		Version:    uuid.NewString(),
		Source:     source,
		LoadedAt:   time.Now().UTC(),
	}, nil
}

// checkAlignment rejects models trained against a different column layout
// than the schema describes, and classifiers with labels outside the fixed set.
func checkAlignment(clf *forest.Classifier, reg *forest.Regressor, schema *features.Schema) error {
	if clf.NFeatures != schema.Width() {
		return fmt.Errorf("classifier expects %d features, schema gives %d", clf.NFeatures, schema.Width())
	}
	if reg.NFeatures != schema.Width() {
		return fmt.Errorf("regressor expects %d features, schema gives %d", reg.NFeatures, schema.Width())
	}
	var errs []error
	for _, c := range clf.Classes {
		if _, err := models.ParseCongestionLevel(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
