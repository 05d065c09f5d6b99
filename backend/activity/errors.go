package activity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an unknown user.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidDayKey is returned for a day key that is not a YYYY-MM-DD date.
	ErrInvalidDayKey = errors.New("invalid day key")
)

// SourceError marks the failure of one external platform during a refresh.
// It is carried inside the per-platform result, never aggregated into the
// request error.
type SourceError struct {
	Platform string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Platform, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
