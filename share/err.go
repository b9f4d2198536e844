package share

import "github.com/pkg/errors"

var (
	// ErrInvalidX is returned when a share has an x coordinate of zero. The
	// secret lives at x = 0, so a share there would reveal it directly.
	ErrInvalidX = errors.New("invalid x coordinate")

	// ErrMissingY is returned when a share has no y value.
	ErrMissingY = errors.New("missing y value")

	// ErrOutOfField is returned when the y value of a share is not in the
	// canonical range of the field.
	ErrOutOfField = errors.New("y value out of field")
)
