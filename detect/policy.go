package detect

import (
	"fmt"
	"math/big"

	"github.com/Laisky/zap"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/interp"
)

// WitnessPolicy decides which shares count as valid once the majority secret
// is known.
type WitnessPolicy uint8

const (
	// UnionOfWitnesses marks a share valid if it appears in any subset whose
	// interpolation gives the majority secret.
	UnionOfWitnesses = WitnessPolicy(iota)

	// FirstWitness marks a share valid only if it appears in the
	// lexicographically first subset that gives the majority secret. Honest
	// shares outside that one subset are reported as corrupt.
	FirstWitness
)

// String implements the Stringer interface.
func (p WitnessPolicy) String() string {
	switch p {
	case UnionOfWitnesses:
		return "union"
	case FirstWitness:
		return "first"
	default:
		return fmt.Sprintf("Unknown(%v)", uint8(p))
	}
}

// ParseWitnessPolicy is the inverse of WitnessPolicy.String.
func ParseWitnessPolicy(s string) (WitnessPolicy, error) {
	switch s {
	case "union":
		return UnionOfWitnesses, nil
	case "first":
		return FirstWitness, nil
	default:
		return 0, fmt.Errorf("unknown witness policy %q", s)
	}
}

// DegeneratePolicy decides what happens to subsets that cannot be
// interpolated because two of their shares have the same x coordinate.
type DegeneratePolicy uint8

const (
	// FailOnDegenerate aborts the whole run on the first degenerate subset.
	FailOnDegenerate = DegeneratePolicy(iota)

	// SkipDegenerate leaves degenerate subsets out of the tally and counts
	// them in Result.Skipped.
	SkipDegenerate
)

// String implements the Stringer interface.
func (p DegeneratePolicy) String() string {
	switch p {
	case FailOnDegenerate:
		return "fail"
	case SkipDegenerate:
		return "skip"
	default:
		return fmt.Sprintf("Unknown(%v)", uint8(p))
	}
}

type options struct {
	logger           *zap.Logger
	witness          WitnessPolicy
	degenerate       DegeneratePolicy
	allowUndecidable bool
	interpolator     interp.Interpolator
	maxSubsets       *big.Int
}

// Option configures a detection run.
type Option func(*options)

// WithLogger sets the logger used for run diagnostics. Runs are silent by
// default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWitnessPolicy sets how the valid shares are chosen. The default is
// UnionOfWitnesses.
func WithWitnessPolicy(p WitnessPolicy) Option {
	return func(o *options) {
		o.witness = p
	}
}

// WithDegeneratePolicy sets how subsets with duplicate x coordinates are
// handled. The default is FailOnDegenerate.
func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(o *options) {
		o.degenerate = p
	}
}

// AllowUndecidable makes a run where every candidate was produced by a single
// subset return the lowest candidate instead of ErrUndecidable.
func AllowUndecidable() Option {
	return func(o *options) {
		o.allowUndecidable = true
	}
}

// WithInterpolator overrides the interpolator chosen by interp.For.
func WithInterpolator(i interp.Interpolator) Option {
	return func(o *options) {
		o.interpolator = i
	}
}

// WithMaxSubsets bounds the number of subsets a run is willing to evaluate.
// Runs with C(n, k) above the bound fail with ErrTooManySubsets before any
// interpolation. There is no bound by default.
func WithMaxSubsets(m uint64) Option {
	return func(o *options) {
		o.maxSubsets = new(big.Int).SetUint64(m)
	}
}

func newOptions(f field.Field, opts []Option) options {
	o := options{
		logger:     zap.NewNop(),
		witness:    UnionOfWitnesses,
		degenerate: FailOnDegenerate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interpolator == nil {
		o.interpolator = interp.For(f)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
