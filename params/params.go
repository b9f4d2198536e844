// Package params holds the well known moduli that shares are usually dealt
// over, and sanity checks for moduli supplied by users.
package params

import "math/big"

const (
	// ReferencePrimeString is the 256-bit prime that share sets are dealt
	// over when no other modulus is given.
	ReferencePrimeString = "208351617316091241234326746312124448251235562226470491514186331217050270460481"

	// Secp256k1NString is the order of the secp256k1 group. Sharings done
	// with github.com/renproject/shamir live in this field.
	Secp256k1NString = "115792089237316195423570985008687907852837564279074904382605163141518161494337"

	// primalityRounds is the number of Miller-Rabin rounds used by
	// IsProbablePrime. The false positive rate is at most 4^-20.
	primalityRounds = 20
)

// ReferencePrime returns the default modulus.
func ReferencePrime() *big.Int {
	return mustParse(ReferencePrimeString)
}

// Secp256k1N returns the order of the secp256k1 group.
func Secp256k1N() *big.Int {
	return mustParse(Secp256k1NString)
}

// IsSecp256k1N returns true if p is the order of the secp256k1 group.
func IsSecp256k1N(p *big.Int) bool {
	return p != nil && p.Cmp(Secp256k1N()) == 0
}

// IsProbablePrime returns false when p is definitely composite. This function
// does NOT prove that p is prime; it runs a fixed number of Miller-Rabin
// rounds plus a Baillie-PSW test.
func IsProbablePrime(p *big.Int) bool {
	return p != nil && p.Sign() > 0 && p.ProbablyPrime(primalityRounds)
}

// ValidModulus returns false when the given modulus cannot be used for
// reconstruction: it is missing, not greater than 2, or composite. The
// modulus 2 is rejected because it leaves no room for distinct non-zero x
// coordinates beyond a single share.
func ValidModulus(p *big.Int) bool {
	return p != nil && p.Cmp(big.NewInt(2)) > 0 && IsProbablePrime(p)
}

func mustParse(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid modulus constant " + s)
	}
	return v
}
