package field

import "github.com/pkg/errors"

var (
	// ErrInvalidModulus is returned when a field is constructed from a
	// modulus that is nil or not greater than 1.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrUndefinedInverse is returned when the inverse of an element that is
	// congruent to zero is requested.
	ErrUndefinedInverse = errors.New("undefined inverse")
)
