package features

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Calendar holds the time-derived part of a feature row.
type Calendar struct {
	Hour      int
	DayOfWeek int // Monday=0
	Month     int
	IsWeekend bool
}

// CalendarOf reads the calendar fields of ts in ts's own location. Callers
// convert to the reference location first.
func CalendarOf(ts time.Time) Calendar {
	dow := (int(ts.Weekday()) + 6) % 7
	return Calendar{
		Hour:      ts.Hour(),
		DayOfWeek: dow,
		Month:     int(ts.Month()),
		IsWeekend: dow >= 5,
	}
}

// Row returns the calendar columns as floats.
func (c Calendar) Row() [NumTimeFeatures]float64 {
	var row [NumTimeFeatures]float64
	row[ColHour] = float64(c.Hour)
	row[ColDayOfWeek] = float64(c.DayOfWeek)
	row[ColMonth] = float64(c.Month)
	if c.IsWeekend {
		row[ColIsWeekend] = 1
	}
	return row
}

// Encode builds one feature row per segment id at ts. Rows are in ascending
// id order whatever the order of ids; the returned slice is that order and
// must be used to match rows back to segments. Ids missing from schema get
// an all-zero one-hot block. Encode returns a nil matrix for no ids.
func Encode(ts time.Time, ids []int64, schema *Schema) (*mat.Dense, []int64) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	if len(ordered) == 0 {
		return nil, ordered
	}

	calendar := CalendarOf(ts).Row()
	X := mat.NewDense(len(ordered), schema.Width(), nil)
	for i, id := range ordered {
		for j, v := range calendar {
			X.Set(i, j, v)
		}
		if pos, ok := schema.Position(id); ok {
			X.Set(i, NumTimeFeatures+pos, 1)
		}
	}
	return X, ordered
}
