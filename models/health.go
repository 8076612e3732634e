package models

const (
	StatusReady   = "ready"
	StatusUnready = "unready"
)

// Readiness reports whether predictions can be served.
type Readiness struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ModelsLoaded bool   `json:"models_loaded"`
	SegmentCount int    `json:"segment_count"`
	ModelVersion string `json:"model_version,omitempty"`
}
