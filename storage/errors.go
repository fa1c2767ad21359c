package storage

import "errors"

var (
	// ErrNotFound is returned for lookups of unknown or removed entities
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when an album's removal rules forbid
	// the operation for a non-admin caller
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEmptyName rejects album creation with a blank name
	ErrEmptyName = errors.New("name must not be empty")
)
