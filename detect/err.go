package detect

import "github.com/pkg/errors"

var (
	// ErrInvalidThreshold is returned when the reconstruction threshold k is
	// not positive.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInsufficientShares is returned when there are fewer shares than the
	// reconstruction threshold, so that no k-subset exists.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrMalformedShare is returned when one of the input shares cannot be
	// used in the field, for example because its y value is out of range.
	ErrMalformedShare = errors.New("malformed share")

	// ErrTooManySubsets is returned when C(n, k) exceeds the configured
	// bound on the number of subsets to evaluate.
	ErrTooManySubsets = errors.New("too many subsets")

	// ErrNoCandidates is returned when every subset was skipped as
	// degenerate, so that no candidate secret was produced.
	ErrNoCandidates = errors.New("no candidate secrets")

	// ErrUndecidable is returned when more than one subset was evaluated but
	// no two of them agree on the secret, so that majority voting cannot
	// prefer any candidate.
	ErrUndecidable = errors.New("undecidable secret")
)
