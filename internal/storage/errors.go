package storage

import "errors"

var (
	// ErrConflict is returned by InsertWord when a word already exists for
	// the (sender, receiver, date_local) triple.
	ErrConflict = errors.New("word already exists for this day")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotLoaded is returned when an operation runs before Load or Init.
	ErrNotLoaded = errors.New("storage not loaded")
)
