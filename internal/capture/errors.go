package capture

import "errors"

var (
	// ErrStartNotFound is returned when the start marker does not occur in the text.
	ErrStartNotFound = errors.New("start marker not found")

	// ErrEndNotFound is returned when the end marker does not occur after the start marker.
	ErrEndNotFound = errors.New("end marker not found after start marker")

	// ErrEmptyMarker is returned when either marker is the empty string.
	ErrEmptyMarker = errors.New("marker must not be empty")
)
