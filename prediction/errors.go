package prediction

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady means no bundle or no catalog has been loaded yet.
	ErrNotReady = errors.New("models not loaded")
	// ErrInvalidInput means the query timestamp could not be parsed.
	ErrInvalidInput = errors.New("invalid datetime, use ISO format such as 2024-10-03T17:00:00")
)

// FailureError is an unexpected failure while running the models. The query
// returns no results when it occurs.
type FailureError struct {
	Stage string
	Err   error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("prediction failed during %s: %v", e.Stage, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }
