package interp

import (
	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/field"
)

var (
	// ErrNoShares is returned when interpolation is attempted without any
	// shares.
	ErrNoShares = errors.New("no shares")

	// ErrDuplicateX is returned when two shares have x coordinates that are
	// equal modulo the prime. The Lagrange denominator is then zero, so it
	// also matches field.ErrUndefinedInverse.
	ErrDuplicateX = errors.Wrap(field.ErrUndefinedInverse, "duplicate x coordinate")

	// ErrOutOfField is returned when the y value of a share is missing or
	// not in the canonical range of the field.
	ErrOutOfField = errors.New("y value out of field")
)
