package models

import "time"

// BundleLoad records one attempt to load a model bundle.
type BundleLoad struct {
	Version    string    `json:"version,omitempty"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Categories int       `json:"categories"`
	LoadedAt   time.Time `json:"loaded_at"`
}

const (
	BundleLoadOK     = "ok"
	BundleLoadFailed = "failed"
)
