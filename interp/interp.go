// Package interp recovers the constant term of the polynomial through a set
// of shares, which is the shared secret.
package interp

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/params"
	"github.com/renproject/shamirvote/share"
)

// An Interpolator reconstructs the secret from exactly k shares of a k
// sharing. Implementations must be pure: the same shares always give the same
// secret regardless of their order.
type Interpolator interface {
	Interpolate(shares share.Shares) (*big.Int, error)
}

// For returns the interpolator best suited to the given field. Sharings over
// the secp256k1 group order use the fixed width arithmetic of
// github.com/renproject/secp256k1, everything else uses Lagrange.
func For(f field.Field) Interpolator {
	if params.IsSecp256k1N(f.Prime()) {
		return Secp256k1{}
	}
	return Lagrange{Field: f}
}

// Lagrange interpolates over an arbitrary prime field using big integers.
type Lagrange struct {
	Field field.Field
}

// Interpolate implements the Interpolator interface.
func (l Lagrange) Interpolate(shares share.Shares) (*big.Int, error) {
	return Interpolate(shares, l.Field)
}

// Interpolate returns f(0) for the unique polynomial f of degree len(shares)-1
// that passes through all of the shares. The value is computed as
//
//	sum_i y_i * prod_{j != i} (-x_j) / (x_i - x_j)
//
// with every step reduced into [0, p). A single share yields its own y value
// since the empty products are 1.
//
// An error is returned if there are no shares, if a y value is outside the
// field, or if two x coordinates are equal modulo p.
func Interpolate(shares share.Shares, f field.Field) (*big.Int, error) {
	xs, err := coordinates(shares, f)
	if err != nil {
		return nil, err
	}

	secret := new(big.Int)
	for i := range shares {
		num, den := big.NewInt(1), big.NewInt(1)
		for j := range shares {
			if i == j {
				continue
			}
			num = f.Mul(num, f.Neg(xs[j]))
			den = f.Mul(den, f.Sub(xs[i], xs[j]))
		}
		inv, err := f.Inverse(den)
		if err != nil {
			// Unreachable for a prime modulus once coordinates has checked
			// for collisions.
			return nil, errors.Wrapf(ErrDuplicateX, "share %v", shares[i])
		}
		term := f.Mul(f.Mul(shares[i].Y, num), inv)
		secret = f.Add(secret, term)
	}
	return secret, nil
}

// coordinates validates the shares and returns their x coordinates reduced
// into the field.
func coordinates(shares share.Shares, f field.Field) ([]*big.Int, error) {
	if len(shares) == 0 {
		return nil, ErrNoShares
	}
	xs := make([]*big.Int, len(shares))
	for i := range shares {
		if shares[i].Y == nil || !f.Contains(shares[i].Y) {
			return nil, errors.Wrapf(ErrOutOfField, "share %v in %v", shares[i], f)
		}
		xs[i] = f.Reduce(new(big.Int).SetUint64(uint64(shares[i].X)))
		for j := 0; j < i; j++ {
			if xs[i].Cmp(xs[j]) == 0 {
				return nil, errors.Wrapf(ErrDuplicateX, "x = %d and x = %d", shares[j].X, shares[i].X)
			}
		}
	}
	return xs, nil
}
