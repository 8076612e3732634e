package forest

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Classifier is a forest whose leaves hold per-class weights. The predicted
// class is the argmax of the mean normalized leaf distribution; ties resolve
// to the lowest class index.
type Classifier struct {
	NFeatures int      `json:"n_features"`
	Classes   []string `json:"classes"`
	Trees     []Tree   `json:"trees"`
}

// Regressor is a forest whose leaves hold a single value. The prediction is
// the mean leaf value across trees.
type Regressor struct {
	NFeatures int    `json:"n_features"`
	Trees     []Tree `json:"trees"`
}

// DecodeClassifier parses and validates a serialized classifier.
func DecodeClassifier(data []byte) (*Classifier, error) {
	var c Classifier
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeRegressor parses and validates a serialized regressor.
func DecodeRegressor(data []byte) (*Regressor, error) {
	var r Regressor
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode regressor: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Classifier) Validate() error {
	if c.NFeatures <= 0 {
		return fmt.Errorf("classifier: n_features must be positive, got %d", c.NFeatures)
	}
	if len(c.Classes) == 0 {
		return errors.New("classifier: no classes")
	}
	if len(c.Trees) == 0 {
		return errors.New("classifier: no trees")
	}
	for i := range c.Trees {
		if err := c.Trees[i].validate(c.NFeatures, len(c.Classes)); err != nil {
			return fmt.Errorf("classifier tree %d: %w", i, err)
		}
	}
	return nil
}

func (r *Regressor) Validate() error {
	if r.NFeatures <= 0 {
		return fmt.Errorf("regressor: n_features must be positive, got %d", r.NFeatures)
	}
	if len(r.Trees) == 0 {
		return errors.New("regressor: no trees")
	}
	for i := range r.Trees {
		if err := r.Trees[i].validate(r.NFeatures, 1); err != nil {
			return fmt.Errorf("regressor tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict returns one class label per row of X.
func (c *Classifier) Predict(X mat.Matrix) ([]string, error) {
	rows, cols := X.Dims()
	if cols != c.NFeatures {
		return nil, fmt.Errorf("classifier expects %d features, got %d", c.NFeatures, cols)
	}

	labels := make([]string, rows)
	row := make([]float64, cols)
	proba := make([]float64, len(c.Classes))
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		for k := range proba {
			proba[k] = 0
		}
		for t := range c.Trees {
			leaf := c.Trees[t].Value[c.Trees[t].leaf(row)]
			if total := floats.Sum(leaf); total > 0 {
				floats.AddScaled(proba, 1/total, leaf)
			}
		}
		labels[i] = c.Classes[floats.MaxIdx(proba)]
	}
	return labels, nil
}

// Predict returns one value per row of X.
func (r *Regressor) Predict(X mat.Matrix) ([]float64, error) {
	rows, cols := X.Dims()
	if cols != r.NFeatures {
		return nil, fmt.Errorf("regressor expects %d features, got %d", r.NFeatures, cols)
	}

	out := make([]float64, rows)
	row := make([]float64, cols)
	leaves := make([]float64, len(r.Trees))
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		for t := range r.Trees {
			leaves[t] = r.Trees[t].Value[r.Trees[t].leaf(row)][0]
		}
		out[i] = stat.Mean(leaves, nil)
	}
	return out, nil
}
