package prediction

import (
	"fmt"
	"strings"
	"time"
)

// Layouts carrying a UTC offset.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// Naive layouts keep their wall clock exactly as written.
// Fractional seconds after the seconds field are accepted by time.Parse.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 date or date-time. A trailing "Z" means
// UTC. Calendar fields are those written in raw: a naive timestamp is held
// as a UTC wall clock so no zone can shift it (DST gaps included), and an
// offset timestamp keeps its own offset. When loc is non-nil, offset
// timestamps are converted into loc first.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty datetime", ErrInvalidInput)
	}
	for _, layout := range offsetLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			if loc != nil {
				return ts.In(loc), nil
			}
			return ts, nil
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
}
