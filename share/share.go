// Package share defines the (x, y) points that a threshold secret sharing
// hands out to its players.
package share

import (
	"fmt"
	"math/big"
	"math/rand"
	"reflect"

	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/surge"
)

// Share is a single point on the sharing polynomial. X identifies the player
// and Y is the polynomial evaluated at X. Shares are treated as immutable:
// code that needs to change Y must Clone first.
type Share struct {
	X uint32
	Y *big.Int
}

// New returns a share with a copy of y.
func New(x uint32, y *big.Int) Share {
	return Share{X: x, Y: new(big.Int).Set(y)}
}

// Clone returns a deep copy of the share.
func (s Share) Clone() Share {
	if s.Y == nil {
		return Share{X: s.X}
	}
	return New(s.X, s.Y)
}

// Eq returns true if the two shares have the same x and y.
func (s Share) Eq(other Share) bool {
	if s.X != other.X {
		return false
	}
	if s.Y == nil || other.Y == nil {
		return s.Y == other.Y
	}
	return s.Y.Cmp(other.Y) == 0
}

// String renders the share as "x:y".
func (s Share) String() string {
	return fmt.Sprintf("%d:%v", s.X, s.Y)
}

// Validate checks that the share is usable in the given field.
func (s Share) Validate(f field.Field) error {
	if s.X == 0 {
		return ErrInvalidX
	}
	if s.Y == nil {
		return errors.Wrapf(ErrMissingY, "share with x = %d", s.X)
	}
	if !f.Contains(s.Y) {
		return errors.Wrapf(ErrOutOfField, "share %v in %v", s, f)
	}
	return nil
}

// Generate implements the quick.Generator interface.
func (s Share) Generate(r *rand.Rand, _ int) reflect.Value {
	y := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), 256))
	return reflect.ValueOf(Share{X: r.Uint32()%1024 + 1, Y: y})
}

// SizeHint implements the surge.SizeHinter interface.
func (s Share) SizeHint() int {
	return surge.SizeHintU32 + field.SizeHintInt(s.Y)
}

// Marshal implements the surge.Marshaler interface.
func (s Share) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.MarshalU32(s.X, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling x: %v", err)
	}
	buf, rem, err = field.MarshalInt(s.Y, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling y: %v", err)
	}
	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (s *Share) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.UnmarshalU32(&s.X, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling x: %v", err)
	}
	s.Y = new(big.Int)
	buf, rem, err = field.UnmarshalInt(s.Y, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling y: %v", err)
	}
	return buf, rem, nil
}

// Shares is an ordered list of shares.
type Shares []Share

// Xs returns the x coordinates of the shares, in order.
func (shares Shares) Xs() []uint32 {
	xs := make([]uint32, len(shares))
	for i := range shares {
		xs[i] = shares[i].X
	}
	return xs
}

// Index returns the position of the first share equal to s, or -1.
func (shares Shares) Index(s Share) int {
	for i := range shares {
		if shares[i].Eq(s) {
			return i
		}
	}
	return -1
}

// Contains returns true if a share equal to s is in the list.
func (shares Shares) Contains(s Share) bool {
	return shares.Index(s) >= 0
}

// Select returns the shares at the given positions, in the order given.
func (shares Shares) Select(indices []int) Shares {
	selected := make(Shares, len(indices))
	for i, j := range indices {
		selected[i] = shares[j]
	}
	return selected
}

// Clone returns a deep copy of the list.
func (shares Shares) Clone() Shares {
	if shares == nil {
		return nil
	}
	cloned := make(Shares, len(shares))
	for i := range shares {
		cloned[i] = shares[i].Clone()
	}
	return cloned
}

// Validate checks every share against the field.
func (shares Shares) Validate(f field.Field) error {
	for i := range shares {
		if err := shares[i].Validate(f); err != nil {
			return errors.Wrapf(err, "share %d", i)
		}
	}
	return nil
}

// Generate implements the quick.Generator interface.
func (shares Shares) Generate(r *rand.Rand, size int) reflect.Value {
	n := r.Intn(size/8 + 1)
	generated := make(Shares, n)
	for i := range generated {
		generated[i] = Share{}.Generate(r, size).Interface().(Share)
	}
	return reflect.ValueOf(generated)
}

// SizeHint implements the surge.SizeHinter interface.
func (shares Shares) SizeHint() int {
	size := surge.SizeHintU32
	for i := range shares {
		size += shares[i].SizeHint()
	}
	return size
}

// Marshal implements the surge.Marshaler interface.
func (shares Shares) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.MarshalU32(uint32(len(shares)), buf, rem)
	if err != nil {
		return buf, rem, err
	}
	for i := range shares {
		buf, rem, err = shares[i].Marshal(buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}
	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (shares *Shares) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	var l uint32
	buf, rem, err := surge.UnmarshalU32(&l, buf, rem)
	if err != nil {
		return buf, rem, err
	}

	// Every share takes at least two length prefixes.
	c := uint64(l) * uint64(2*surge.SizeHintU32)
	if uint64(len(buf)) < c || uint64(rem) < c {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}

	*shares = make(Shares, l)
	for i := range *shares {
		buf, rem, err = (*shares)[i].Unmarshal(buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}
	return buf, rem, nil
}
