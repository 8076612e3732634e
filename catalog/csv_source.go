package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"traffic-hotspot-api/models"
)

var requiredColumns = []string{"centreline_id", "location_name", "longitude", "latitude"}

// CSVSource reads the cleaned counts file. Columns are located by header
// name; other columns are ignored.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Describe() string {
	return "csv:" + s.Path
}

func (s *CSVSource) Records(ctx context.Context) ([]models.Segment, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) ([]models.Segment, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var out []models.Segment
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := parseID(rec[cols["centreline_id"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: centreline_id: %w", line, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["longitude"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude: %w", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["latitude"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude: %w", line, err)
		}
		out = append(out, models.Segment{
			CentrelineID: id,
			LocationName: rec[cols["location_name"]],
			Longitude:    lng,
			Latitude:     lat,
		})
	}
	return out, nil
}

// parseID accepts integers and integral floats ("1234.0"), which is how
// some exporters write integer columns that once held NaNs.
func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}
