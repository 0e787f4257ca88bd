package repository

import "errors"

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidPageable is returned for a negative page index or a page size below one
	ErrInvalidPageable = errors.New("invalid page request")
)
