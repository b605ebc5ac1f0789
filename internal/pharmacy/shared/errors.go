package shared

import "errors"

var (
	// ErrInvalidID is returned for non-numeric or non-positive record ids.
	ErrInvalidID = errors.New("invalid ID")
	// ErrNotFound is returned when the backend answers without the record.
	ErrNotFound = errors.New("resource not found")
)
