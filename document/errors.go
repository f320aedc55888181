package document

import "errors"

// Common document errors.
var (
	// ErrConfiguration is returned when a required assembly configuration
	// field is missing or malformed. Nothing is written when it occurs.
	ErrConfiguration = errors.New("invalid assembly configuration")

	// ErrUnknownReference is returned when an identifier that must resolve
	// (the creation-info element, a merge target) is not in the pool.
	ErrUnknownReference = errors.New("unknown element reference")
)
