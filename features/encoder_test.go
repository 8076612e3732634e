package features

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCalendarOf(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want Calendar
	}{
		{"thursday evening", time.Date(2024, 10, 3, 17, 0, 0, 0, time.UTC), Calendar{17, 3, 10, false}},
		{"monday midnight", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Calendar{0, 0, 1, false}},
		{"saturday", time.Date(2024, 6, 8, 9, 30, 0, 0, time.UTC), Calendar{9, 5, 6, true}},
		{"sunday late", time.Date(2024, 12, 29, 23, 59, 0, 0, time.UTC), Calendar{23, 6, 12, true}},
		{"friday", time.Date(2023, 3, 10, 12, 0, 0, 0, time.UTC), Calendar{12, 4, 3, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CalendarOf(tt.ts)); diff != "" {
				t.Errorf("CalendarOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalendarUsesLocationOfTimestamp(t *testing.T) {
	toronto, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)

	// 02:00 UTC on a Saturday is 22:00 Friday in Toronto.
	ts := time.Date(2024, 10, 5, 2, 0, 0, 0, time.UTC)
	got := CalendarOf(ts.In(toronto))
	assert.Equal(t, Calendar{Hour: 22, DayOfWeek: 4, Month: 10, IsWeekend: false}, got)
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema([]int64{3, 1, 3})
	assert.Error(t, err)
}

func TestSchemaColumns(t *testing.T) {
	s, err := NewSchema([]int64{30, 10, 20})
	require.NoError(t, err)

	want := []string{"hour", "day_of_week", "month", "is_weekend", "centreline_30", "centreline_10", "centreline_20"}
	assert.Equal(t, want, s.Columns())
	assert.Equal(t, 7, s.Width())
	assert.Equal(t, 3, s.Len())
}

func TestEncodeUsesFrozenSchemaOrder(t *testing.T) {
	// Schema order deliberately differs from ascending id order.
	schema, err := NewSchema([]int64{30, 10, 20})
	require.NoError(t, err)

	ts := time.Date(2024, 10, 3, 17, 0, 0, 0, time.UTC)
	X, ids := Encode(ts, []int64{20, 30, 10}, schema)
	require.NotNil(t, X)

	assert.Equal(t, []int64{10, 20, 30}, ids)
	want := mat.NewDense(3, 7, []float64{
		17, 3, 10, 0, 0, 1, 0, // id 10 -> schema position 1
		17, 3, 10, 0, 0, 0, 1, // id 20 -> schema position 2
		17, 3, 10, 0, 1, 0, 0, // id 30 -> schema position 0
	})
	assert.True(t, mat.Equal(want, X), "got\n%v", mat.Formatted(X))
}

func TestEncodeUnknownSegmentHasZeroBlock(t *testing.T) {
	schema, err := NewSchema([]int64{1, 2})
	require.NoError(t, err)

	X, ids := Encode(time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC), []int64{99, 1}, schema)
	require.NotNil(t, X)
	assert.Equal(t, []int64{1, 99}, ids)

	assert.Equal(t, []float64{9, 5, 6, 1, 1, 0}, mat.Row(nil, 0, X))
	assert.Equal(t, []float64{9, 5, 6, 1, 0, 0}, mat.Row(nil, 1, X))
}

func TestEncodeDoesNotReorderInput(t *testing.T) {
	schema, err := NewSchema([]int64{1, 2, 3})
	require.NoError(t, err)

	in := []int64{3, 1, 2}
	Encode(time.Now(), in, schema)
	assert.Equal(t, []int64{3, 1, 2}, in)
}

func TestEncodeEmpty(t *testing.T) {
	schema, err := NewSchema([]int64{1})
	require.NoError(t, err)

	X, ids := Encode(time.Now(), nil, schema)
	assert.Nil(t, X)
	assert.Empty(t, ids)
}

func TestEncodeAtMostOneHotPerRow(t *testing.T) {
	ids := make([]int64, 0, 49)
	for i := int64(0); i < 49; i++ {
		ids = append(ids, 1000+i)
	}
	schema, err := NewSchema(ids[:40])
	require.NoError(t, err)

	X, _ := Encode(time.Date(2024, 10, 3, 17, 0, 0, 0, time.UTC), ids, schema)
	rows, cols := X.Dims()
	require.Equal(t, 49, rows)
	require.Equal(t, 44, cols)
	for i := 0; i < rows; i++ {
		var hot float64
		for j := NumTimeFeatures; j < cols; j++ {
			hot += X.At(i, j)
		}
		if i < 40 {
			assert.Equal(t, 1.0, hot, "row %d", i)
		} else {
			assert.Equal(t, 0.0, hot, "row %d", i)
		}
	}
}
