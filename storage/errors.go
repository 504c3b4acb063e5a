package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no file resource matches a lookup.
	ErrNotFound = errors.New("file resource not found")
)
