// Package features builds the model input matrix: four calendar columns
// followed by a one-hot block laid out by a frozen category schema.
package features

import (
	"fmt"
	"slices"
	"strconv"
)

// Calendar columns, in matrix order.
const (
	ColHour = iota
	ColDayOfWeek
	ColMonth
	ColIsWeekend

	NumTimeFeatures
)

// TimeColumns names the calendar columns in matrix order.
var TimeColumns = []string{"hour", "day_of_week", "month", "is_weekend"}

// Schema is the ordered list of segment ids frozen when the models were
// trained. Position i in the list is column NumTimeFeatures+i of every
// feature row. A Schema is immutable after construction.
type Schema struct {
	ids   []int64
	index map[int64]int
}

// NewSchema freezes ids in the given order. Duplicate ids are rejected since
// they would make the one-hot position ambiguous.
func NewSchema(ids []int64) (*Schema, error) {
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		if prev, ok := index[id]; ok {
			return nil, fmt.Errorf("duplicate category %d at positions %d and %d", id, prev, i)
		}
		index[id] = i
	}
	return &Schema{ids: slices.Clone(ids), index: index}, nil
}

// Len is the width of the one-hot block.
func (s *Schema) Len() int { return len(s.ids) }

// Width is the full feature row width.
func (s *Schema) Width() int { return NumTimeFeatures + len(s.ids) }

// IDs returns a copy of the frozen ordering.
func (s *Schema) IDs() []int64 { return slices.Clone(s.ids) }

// Position reports the one-hot offset of id, or false if the id was not
// seen at training time.
func (s *Schema) Position(id int64) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Columns returns the column names of a feature row.
func (s *Schema) Columns() []string {
	cols := make([]string, 0, s.Width())
	cols = append(cols, TimeColumns...)
	for _, id := range s.ids {
		cols = append(cols, "centreline_"+strconv.FormatInt(id, 10))
	}
	return cols
}
