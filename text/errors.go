package text

import "errors"

// Errors returned by snapshot editing.
var (
	// ErrInvalidChange indicates a change with an out-of-range or inverted span.
	ErrInvalidChange = errors.New("text: invalid change range")

	// ErrOverlappingChanges indicates a change set that is unsorted or overlapping.
	ErrOverlappingChanges = errors.New("text: changes overlap or are out of order")
)
