package input

import "github.com/pkg/errors"

// ErrMalformed is returned when a share set cannot be decoded or is missing
// required fields.
var ErrMalformed = errors.New("malformed input")
