// Package field implements arithmetic in the prime field Z/pZ over arbitrary
// precision integers. Every operation returns a freshly allocated value in the
// canonical range [0, p); inputs are never modified.
//
// The modulus is assumed, but not checked, to be prime. For a composite
// modulus Inverse can fail for non-zero elements, and interpolation results
// are meaningless.
package field

import (
	"fmt"
	"math/big"
	"math/rand"
	"reflect"

	"github.com/pkg/errors"
	"github.com/renproject/surge"
)

// Field is the prime field defined by a modulus p. The zero value has no
// modulus and fails Validate; construct fields with New.
type Field struct {
	p *big.Int
}

// New returns the field with the given modulus. The modulus is copied.
func New(p *big.Int) (Field, error) {
	if p == nil || p.Cmp(big.NewInt(1)) <= 0 {
		return Field{}, ErrInvalidModulus
	}
	return Field{p: new(big.Int).Set(p)}, nil
}

// FromString returns the field with the given decimal modulus.
func FromString(p string) (Field, error) {
	v, ok := new(big.Int).SetString(p, 10)
	if !ok {
		return Field{}, errors.Wrapf(ErrInvalidModulus, "parse %q", p)
	}
	return New(v)
}

// Validate returns ErrInvalidModulus for the zero value, which has no
// modulus.
func (f Field) Validate() error {
	if f.p == nil {
		return errors.Wrap(ErrInvalidModulus, "field has no modulus")
	}
	return nil
}

// Prime returns a copy of the modulus, or nil for the zero value.
func (f Field) Prime() *big.Int {
	if f.p == nil {
		return nil
	}
	return new(big.Int).Set(f.p)
}

// Eq returns true if the two fields have the same modulus.
func (f Field) Eq(other Field) bool {
	if f.p == nil || other.p == nil {
		return f.p == other.p
	}
	return f.p.Cmp(other.p) == 0
}

// String implements the Stringer interface.
func (f Field) String() string {
	if f.p == nil {
		return "F(nil)"
	}
	return fmt.Sprintf("F(%v)", f.p)
}

// Contains returns true if a is already in the canonical range [0, p). The
// zero value contains nothing.
func (f Field) Contains(a *big.Int) bool {
	if f.p == nil || a == nil {
		return false
	}
	return a.Sign() >= 0 && a.Cmp(f.p) < 0
}

// Reduce returns a mod p in [0, p). Negative inputs are mapped to their
// non-negative residue.
func (f Field) Reduce(a *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, so the result is never negative.
	return new(big.Int).Mod(a, f.p)
}

// Add returns a + b mod p.
func (f Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

// Sub returns a - b mod p.
func (f Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.p)
}

// Mul returns a * b mod p.
func (f Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// Neg returns -a mod p.
func (f Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.p)
}

// Inverse returns the element b such that a * b = 1 mod p. If a is congruent
// to zero, ErrUndefinedInverse is returned.
func (f Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, ErrUndefinedInverse
	}
	if r.ModInverse(r, f.p) == nil {
		// Only reachable when p is composite and shares a factor with a.
		return nil, ErrUndefinedInverse
	}
	return r, nil
}

// Generate implements the quick.Generator interface.
func (f Field) Generate(r *rand.Rand, _ int) reflect.Value {
	p := big.NewInt(r.Int63n(1<<62) + 2)
	return reflect.ValueOf(Field{p: p})
}

// SizeHint implements the surge.SizeHinter interface.
func (f Field) SizeHint() int { return SizeHintInt(f.p) }

// Marshal implements the surge.Marshaler interface.
func (f Field) Marshal(buf []byte, rem int) ([]byte, int, error) {
	if f.p == nil {
		return buf, rem, ErrInvalidModulus
	}
	buf, rem, err := MarshalInt(f.p, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling modulus: %v", err)
	}
	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (f *Field) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	p := new(big.Int)
	buf, rem, err := UnmarshalInt(p, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling modulus: %v", err)
	}
	g, err := New(p)
	if err != nil {
		return buf, rem, err
	}
	*f = g
	return buf, rem, nil
}

// SizeHintInt returns the number of bytes MarshalInt needs for x.
func SizeHintInt(x *big.Int) int {
	if x == nil {
		return surge.SizeHintU32
	}
	return surge.SizeHintU32 + len(x.Bytes())
}

// MarshalInt writes the absolute value of x as a length prefixed big endian
// byte string. Field elements are never negative, so the sign is dropped. A
// nil x is written as zero.
func MarshalInt(x *big.Int, buf []byte, rem int) ([]byte, int, error) {
	var bs []byte
	if x != nil {
		bs = x.Bytes()
	}
	buf, rem, err := surge.MarshalU32(uint32(len(bs)), buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if rem < len(bs) {
		return buf, rem, surge.ErrLengthOverflow
	}
	if len(buf) < len(bs) {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	copy(buf, bs)
	return buf[len(bs):], rem - len(bs), nil
}

// UnmarshalInt reads a value written by MarshalInt into x.
func UnmarshalInt(x *big.Int, buf []byte, rem int) ([]byte, int, error) {
	var l uint32
	buf, rem, err := surge.UnmarshalU32(&l, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if uint64(rem) < uint64(l) {
		return buf, rem, surge.ErrLengthOverflow
	}
	if uint64(len(buf)) < uint64(l) {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	x.SetBytes(buf[:l])
	return buf[l:], rem - int(l), nil
}
