package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusConflict is returned when a guarded status update finds the
	// booking in a different status than the caller expected. This is the
	// store-side lost-update guard: of two racing transitions, exactly one
	// wins and the other observes this error.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)
