package interp

import (
	"math/big"

	"github.com/renproject/secp256k1"
	"github.com/renproject/shamir"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/params"
	"github.com/renproject/shamirvote/share"
)

// secp256k1Field is the field that Secp256k1 validates shares against.
var secp256k1Field, _ = field.New(params.Secp256k1N())

// Secp256k1 interpolates sharings over the secp256k1 group order by handing
// them to shamir.Open. It gives the same results as Lagrange for that field.
type Secp256k1 struct{}

// Interpolate implements the Interpolator interface.
func (Secp256k1) Interpolate(shares share.Shares) (*big.Int, error) {
	// shamir.Open assumes distinct indices, so check them here where the
	// failure can be reported.
	if _, err := coordinates(shares, secp256k1Field); err != nil {
		return nil, err
	}

	buf := make(shamir.Shares, len(shares))
	for i := range shares {
		buf[i] = shamir.Share{
			Index: fnFromInt(new(big.Int).SetUint64(uint64(shares[i].X))),
			Value: fnFromInt(shares[i].Y),
		}
	}
	secret := shamir.Open(buf)
	return intFromFn(&secret), nil
}

// fnFromInt converts a value in [0, N) into a scalar.
func fnFromInt(x *big.Int) secp256k1.Fn {
	var bs [32]byte
	x.FillBytes(bs[:])

	var fn secp256k1.Fn
	_ = fn.SetB32(bs[:])
	return fn
}

// intFromFn converts a scalar into a big integer.
func intFromFn(fn *secp256k1.Fn) *big.Int {
	var bs [32]byte
	fn.PutB32(bs[:])
	return new(big.Int).SetBytes(bs[:])
}
