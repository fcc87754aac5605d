package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches, including records owned by another store.
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion is returned when an update lost a race against another write.
	ErrStaleVersion = errors.New("record was modified concurrently")
	// ErrDuplicateEmail is returned when a store email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
