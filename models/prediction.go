package models

import "fmt"

// CongestionLevel is the ordinal traffic intensity label.
type CongestionLevel string

const (
	CongestionLow    CongestionLevel = "Low"
	CongestionMedium CongestionLevel = "Medium"
	CongestionHigh   CongestionLevel = "High"
)

// ParseCongestionLevel accepts only the three known labels.
func ParseCongestionLevel(s string) (CongestionLevel, error) {
	switch l := CongestionLevel(s); l {
	case CongestionLow, CongestionMedium, CongestionHigh:
		return l, nil
	}
	return "", fmt.Errorf("unknown congestion level %q", s)
}

// PredictionResult is the forecast for one segment at one timestamp.
type PredictionResult struct {
	CentrelineID      int64           `json:"centreline_id"`
	LocationName      string          `json:"location_name"`
	Longitude         float64         `json:"longitude"`
	Latitude          float64         `json:"latitude"`
	CongestionLevel   CongestionLevel `json:"congestion_level"`
	PredictedVehicles int             `json:"predicted_vehicles"`
}
