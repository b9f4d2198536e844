// Package shareutil deals and perturbs shares for tests. It is not part of
// the reconstruction path.
package shareutil

import (
	"math/big"
	"math/rand"

	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/share"
)

// Eval evaluates the polynomial with the given coefficients, constant term
// first, at x using Horner's rule.
func Eval(f field.Field, coeffs []*big.Int, x *big.Int) *big.Int {
	acc := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = f.Add(f.Mul(acc, x), coeffs[i])
	}
	return acc
}

// RandomElement returns a uniform element of the field.
func RandomElement(r *rand.Rand, f field.Field) *big.Int {
	return new(big.Int).Rand(r, f.Prime())
}

// RandomCoeffs returns the coefficients of a random polynomial of degree k-1
// with the given constant term.
func RandomCoeffs(r *rand.Rand, f field.Field, secret *big.Int, k int) []*big.Int {
	coeffs := make([]*big.Int, k)
	coeffs[0] = f.Reduce(secret)
	for i := 1; i < k; i++ {
		coeffs[i] = RandomElement(r, f)
	}
	return coeffs
}

// SequentialXs returns 1, 2, ..., n.
func SequentialXs(n int) []uint32 {
	xs := make([]uint32, n)
	for i := range xs {
		xs[i] = uint32(i + 1)
	}
	return xs
}

// RandomXs returns n distinct non-zero x coordinates smaller than bound.
//
// Panics: if bound is not greater than n.
func RandomXs(r *rand.Rand, n int, bound uint32) []uint32 {
	if uint64(bound) <= uint64(n) {
		panic("bound too small for distinct x coordinates")
	}
	seen := make(map[uint32]struct{}, n)
	xs := make([]uint32, 0, n)
	for len(xs) < n {
		x := r.Uint32()%(bound-1) + 1
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		xs = append(xs, x)
	}
	return xs
}

// Deal shares the secret with threshold k at the given x coordinates.
func Deal(r *rand.Rand, f field.Field, secret *big.Int, k int, xs []uint32) share.Shares {
	return DealWithCoeffs(f, RandomCoeffs(r, f, secret, k), xs)
}

// DealWithCoeffs evaluates the given polynomial at every x coordinate.
func DealWithCoeffs(f field.Field, coeffs []*big.Int, xs []uint32) share.Shares {
	shares := make(share.Shares, len(xs))
	for i, x := range xs {
		shares[i] = share.Share{
			X: x,
			Y: Eval(f, coeffs, new(big.Int).SetUint64(uint64(x))),
		}
	}
	return shares
}

// Tamper returns a copy of s whose y value is moved off the polynomial by
// delta, which must be non-zero mod p.
func Tamper(f field.Field, s share.Share, delta *big.Int) share.Share {
	return share.Share{X: s.X, Y: f.Add(s.Y, delta)}
}

// TamperRandom replaces the y values at the given positions with fresh random
// values that differ from the originals. The input is left unchanged.
func TamperRandom(r *rand.Rand, f field.Field, shares share.Shares, positions []int) share.Shares {
	tampered := shares.Clone()
	for _, i := range positions {
		delta := RandomElement(r, f)
		for delta.Sign() == 0 {
			delta = RandomElement(r, f)
		}
		tampered[i] = Tamper(f, tampered[i], delta)
	}
	return tampered
}

// RandomPositions returns c distinct positions in [0, n), sorted ascending.
func RandomPositions(r *rand.Rand, n, c int) []int {
	perm := r.Perm(n)[:c]
	positions := make([]int, 0, c)
	for i := 0; i < n; i++ {
		for _, j := range perm {
			if i == j {
				positions = append(positions, i)
			}
		}
	}
	return positions
}

// Shuffle returns a shuffled copy of the shares.
func Shuffle(r *rand.Rand, shares share.Shares) share.Shares {
	shuffled := make(share.Shares, len(shares))
	copy(shuffled, shares)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
