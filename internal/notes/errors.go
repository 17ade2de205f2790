package notes

import "errors"

var (
	// ErrValidation is returned when a required field is empty after trimming.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when an operation names a missing note.
	ErrNotFound = errors.New("note not found")
	// ErrStoreUnavailable is returned when the backend cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
