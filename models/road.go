package models

// Segment is a road segment the models can score.
type Segment struct {
	CentrelineID int64   `json:"centreline_id"`
	LocationName string  `json:"location_name"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
}

// Bounds is the lat/lng rectangle covering a set of segments.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}
