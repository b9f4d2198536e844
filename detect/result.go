package detect

import (
	"fmt"
	"math/big"
	"math/rand"
	"reflect"

	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/share"
	"github.com/renproject/surge"
)

// Verdict is the classification of a single input share.
type Verdict uint8

const (
	// Valid signifies that the share appears in a subset that interpolates
	// to the majority secret.
	Valid = Verdict(iota)

	// Corrupt signifies that the share is not part of any subset counted as
	// a witness for the majority secret. This is a conclusion by exclusion,
	// not direct evidence of tampering.
	Corrupt
)

// String implements the Stringer interface.
func (v Verdict) String() string {
	var s string
	switch v {
	case Valid:
		s = "Valid"
	case Corrupt:
		s = "Corrupt"
	default:
		s = fmt.Sprintf("Unknown(%v)", uint8(v))
	}
	return s
}

// Result is the outcome of a detection run.
type Result struct {
	// Secret is the majority secret.
	Secret *big.Int
	// Valid and Corrupt partition the input shares, each in input order.
	Valid, Corrupt share.Shares
	// Verdicts holds one verdict per input share, in input order.
	Verdicts []Verdict
	// Votes is the number of subsets that interpolated to Secret.
	Votes uint64
	// Subsets is the number of subsets that were tallied.
	Subsets uint64
	// Skipped is the number of degenerate subsets left out of the tally.
	Skipped uint64

	// Tally is the full vote count of the run. It is not marshalled.
	Tally *Tally
}

// Generate implements the quick.Generator interface.
func (result Result) Generate(r *rand.Rand, size int) reflect.Value {
	shares := share.Shares{}.Generate(r, size).Interface().(share.Shares)
	verdicts := make([]Verdict, len(shares))
	valid, corrupt := share.Shares{}, share.Shares{}
	for i := range shares {
		verdicts[i] = Verdict(r.Intn(2))
		if verdicts[i] == Valid {
			valid = append(valid, shares[i])
		} else {
			corrupt = append(corrupt, shares[i])
		}
	}
	return reflect.ValueOf(Result{
		Secret:   new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), 256)),
		Valid:    valid,
		Corrupt:  corrupt,
		Verdicts: verdicts,
		Votes:    r.Uint64(),
		Subsets:  r.Uint64(),
		Skipped:  r.Uint64(),
	})
}

// SizeHint implements the surge.SizeHinter interface.
func (result Result) SizeHint() int {
	return field.SizeHintInt(result.Secret) +
		result.Valid.SizeHint() +
		result.Corrupt.SizeHint() +
		surge.SizeHintU32 + len(result.Verdicts) +
		3*surge.SizeHintU64
}

// Marshal implements the surge.Marshaler interface.
func (result Result) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := field.MarshalInt(result.Secret, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling secret: %v", err)
	}
	buf, rem, err = result.Valid.Marshal(buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling valid shares: %v", err)
	}
	buf, rem, err = result.Corrupt.Marshal(buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling corrupt shares: %v", err)
	}
	buf, rem, err = surge.MarshalU32(uint32(len(result.Verdicts)), buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling verdicts: %v", err)
	}
	for _, v := range result.Verdicts {
		buf, rem, err = surge.MarshalU8(uint8(v), buf, rem)
		if err != nil {
			return buf, rem, fmt.Errorf("marshaling verdicts: %v", err)
		}
	}
	buf, rem, err = surge.MarshalU64(result.Votes, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling votes: %v", err)
	}
	buf, rem, err = surge.MarshalU64(result.Subsets, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling subsets: %v", err)
	}
	buf, rem, err = surge.MarshalU64(result.Skipped, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("marshaling skipped: %v", err)
	}
	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (result *Result) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	result.Secret = new(big.Int)
	buf, rem, err := field.UnmarshalInt(result.Secret, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling secret: %v", err)
	}
	buf, rem, err = result.Valid.Unmarshal(buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling valid shares: %v", err)
	}
	buf, rem, err = result.Corrupt.Unmarshal(buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling corrupt shares: %v", err)
	}

	var l uint32
	buf, rem, err = surge.UnmarshalU32(&l, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling verdicts: %v", err)
	}
	if uint64(len(buf)) < uint64(l) || uint64(rem) < uint64(l) {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	result.Verdicts = make([]Verdict, l)
	for i := range result.Verdicts {
		var v uint8
		buf, rem, err = surge.UnmarshalU8(&v, buf, rem)
		if err != nil {
			return buf, rem, fmt.Errorf("unmarshaling verdicts: %v", err)
		}
		result.Verdicts[i] = Verdict(v)
	}

	buf, rem, err = surge.UnmarshalU64(&result.Votes, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling votes: %v", err)
	}
	buf, rem, err = surge.UnmarshalU64(&result.Subsets, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling subsets: %v", err)
	}
	buf, rem, err = surge.UnmarshalU64(&result.Skipped, buf, rem)
	if err != nil {
		return buf, rem, fmt.Errorf("unmarshaling skipped: %v", err)
	}
	result.Tally = nil
	return buf, rem, nil
}
