package store

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when an element id is not in the pool.
	ErrNotFound = errors.New("element not found")
)
