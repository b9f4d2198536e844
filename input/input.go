// Package input decodes share sets from JSON.
//
// Two layouts are understood. The reference layout lists the shares
// explicitly:
//
//	{
//	  "n": 4,
//	  "k": 2,
//	  "prime": "257",
//	  "shares": [{"x": 1, "y": "47"}, [2, "52"], ...]
//	}
//
// where each share is either an object or an [x, y] pair. The keyed layout
// names every share by its x coordinate and encodes y in an arbitrary base:
//
//	{
//	  "keys": {"n": 4, "k": 2},
//	  "1": {"base": "10", "value": "47"},
//	  "2": {"base": "2", "value": "110100"}
//	}
//
// Keyed values are evaluations over the integers, so they are reduced modulo
// the prime. Reference values must already be field elements.
//
// Big integers may be written as JSON strings or as bare JSON numbers.
package input

import (
	"bytes"
	"io"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/share"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Problem is a decoded share set together with its reconstruction
// parameters.
type Problem struct {
	// N is the declared number of shares. It always equals len(Shares).
	N int
	// K is the reconstruction threshold.
	K int
	// Field is the prime field the shares live in.
	Field field.Field
	// Shares are the decoded shares in input order. Keyed inputs are sorted
	// by x.
	Shares share.Shares
}

// Options control decoding.
type Options struct {
	// DefaultPrime is used when the input does not name a prime. If it is
	// nil, inputs without a prime are rejected.
	DefaultPrime *big.Int
}

// Load decodes the share set in the given file.
func Load(path string, opts Options) (Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Problem{}, errors.Wrapf(err, "read file %q", path)
	}
	p, err := DecodeBytes(data, opts)
	if err != nil {
		return Problem{}, errors.Wrapf(err, "decode file %q", path)
	}
	return p, nil
}

// Decode reads a share set from r.
func Decode(r io.Reader, opts Options) (Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Problem{}, errors.Wrap(err, "read input")
	}
	return DecodeBytes(data, opts)
}

// DecodeBytes decodes a share set.
func DecodeBytes(data []byte, opts Options) (Problem, error) {
	var doc map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Problem{}, errors.Wrapf(ErrMalformed, "parse json: %v", err)
	}
	if _, ok := doc["keys"]; ok {
		return decodeKeyed(doc, opts)
	}
	return decodeReference(doc, opts)
}

func decodeReference(doc map[string]jsoniter.RawMessage, opts Options) (Problem, error) {
	f, err := decodeField(doc["prime"], opts)
	if err != nil {
		return Problem{}, err
	}
	k, err := decodeInt(doc["k"], "k")
	if err != nil {
		return Problem{}, err
	}

	raw, ok := doc["shares"]
	if !ok {
		return Problem{}, errors.Wrap(ErrMalformed, "missing shares")
	}
	var entries []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Problem{}, errors.Wrapf(ErrMalformed, "shares: %v", err)
	}

	shares := make(share.Shares, len(entries))
	for i, entry := range entries {
		if shares[i], err = decodeShare(entry, f); err != nil {
			return Problem{}, errors.Wrapf(err, "share %d", i)
		}
	}

	n, err := declaredN(doc["n"], len(shares))
	if err != nil {
		return Problem{}, err
	}
	return Problem{N: n, K: k, Field: f, Shares: shares}, nil
}

func decodeKeyed(doc map[string]jsoniter.RawMessage, opts Options) (Problem, error) {
	var keys map[string]jsoniter.RawMessage
	if err := json.Unmarshal(doc["keys"], &keys); err != nil {
		return Problem{}, errors.Wrapf(ErrMalformed, "keys: %v", err)
	}
	primeRaw := doc["prime"]
	if primeRaw == nil {
		primeRaw = keys["prime"]
	}
	f, err := decodeField(primeRaw, opts)
	if err != nil {
		return Problem{}, err
	}
	k, err := decodeInt(keys["k"], "k")
	if err != nil {
		return Problem{}, err
	}

	shares := share.Shares{}
	for name, raw := range doc {
		if name == "keys" || name == "prime" {
			continue
		}
		x, err := decodeX([]byte(strconv.Quote(name)))
		if err != nil {
			return Problem{}, errors.Wrapf(err, "share %q", name)
		}
		var root struct {
			Base  jsoniter.RawMessage `json:"base"`
			Value jsoniter.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &root); err != nil {
			return Problem{}, errors.Wrapf(ErrMalformed, "share %q: %v", name, err)
		}
		base, err := decodeInt(root.Base, "base")
		if err != nil {
			return Problem{}, errors.Wrapf(err, "share %q", name)
		}
		if base < 2 || base > 36 {
			return Problem{}, errors.Wrapf(ErrMalformed, "share %q: base %d not in [2, 36]", name, base)
		}
		y, err := decodeBigInt(root.Value, base)
		if err != nil {
			return Problem{}, errors.Wrapf(err, "share %q value", name)
		}
		if y.Sign() < 0 {
			return Problem{}, errors.Wrapf(ErrMalformed, "share %q: negative value", name)
		}
		shares = append(shares, share.Share{X: x, Y: f.Reduce(y)})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].X < shares[j].X })

	n, err := declaredN(keys["n"], len(shares))
	if err != nil {
		return Problem{}, err
	}
	return Problem{N: n, K: k, Field: f, Shares: shares}, nil
}

func decodeShare(raw jsoniter.RawMessage, f field.Field) (share.Share, error) {
	var xRaw, yRaw jsoniter.RawMessage
	switch firstByte(raw) {
	case '{':
		var obj struct {
			X jsoniter.RawMessage `json:"x"`
			Y jsoniter.RawMessage `json:"y"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return share.Share{}, errors.Wrapf(ErrMalformed, "%v", err)
		}
		xRaw, yRaw = obj.X, obj.Y
	case '[':
		var pair []jsoniter.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return share.Share{}, errors.Wrapf(ErrMalformed, "%v", err)
		}
		if len(pair) != 2 {
			return share.Share{}, errors.Wrapf(ErrMalformed, "expected [x, y], got %d elements", len(pair))
		}
		xRaw, yRaw = pair[0], pair[1]
	default:
		return share.Share{}, errors.Wrap(ErrMalformed, "share must be an object or an [x, y] pair")
	}

	x, err := decodeX(xRaw)
	if err != nil {
		return share.Share{}, err
	}
	y, err := decodeBigInt(yRaw, 10)
	if err != nil {
		return share.Share{}, errors.Wrap(err, "y")
	}
	s := share.Share{X: x, Y: y}
	if err := s.Validate(f); err != nil {
		return share.Share{}, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return s, nil
}

func decodeField(raw jsoniter.RawMessage, opts Options) (field.Field, error) {
	var p *big.Int
	if raw == nil {
		if opts.DefaultPrime == nil {
			return field.Field{}, errors.Wrap(ErrMalformed, "missing prime")
		}
		p = opts.DefaultPrime
	} else {
		var err error
		if p, err = decodeBigInt(raw, 10); err != nil {
			return field.Field{}, errors.Wrap(err, "prime")
		}
	}
	f, err := field.New(p)
	if err != nil {
		return field.Field{}, errors.Wrapf(ErrMalformed, "prime: %v", err)
	}
	return f, nil
}

func decodeX(raw jsoniter.RawMessage) (uint32, error) {
	x, err := decodeBigInt(raw, 10)
	if err != nil {
		return 0, errors.Wrap(err, "x")
	}
	if x.Sign() <= 0 || !x.IsUint64() || x.Uint64() > 1<<32-1 {
		return 0, errors.Wrapf(ErrMalformed, "x = %v is not a positive 32-bit integer", x)
	}
	return uint32(x.Uint64()), nil
}

func decodeInt(raw jsoniter.RawMessage, name string) (int, error) {
	if raw == nil {
		return 0, errors.Wrapf(ErrMalformed, "missing %s", name)
	}
	v, err := decodeBigInt(raw, 10)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	if !v.IsInt64() || v.Int64() > int64(^uint32(0)>>1) || v.Int64() < -int64(^uint32(0)>>1) {
		return 0, errors.Wrapf(ErrMalformed, "%s = %v out of range", name, v)
	}
	return int(v.Int64()), nil
}

// declaredN checks the optional declared share count against the actual one.
func declaredN(raw jsoniter.RawMessage, actual int) (int, error) {
	if raw == nil {
		return actual, nil
	}
	n, err := decodeInt(raw, "n")
	if err != nil {
		return 0, err
	}
	if n != actual {
		return 0, errors.Wrapf(ErrMalformed, "n = %d but %d shares given", n, actual)
	}
	return n, nil
}

// decodeBigInt parses an integer written either as a JSON string in the
// given base or as a bare JSON number in base 10.
func decodeBigInt(raw jsoniter.RawMessage, base int) (*big.Int, error) {
	if raw == nil {
		return nil, errors.Wrap(ErrMalformed, "missing value")
	}
	var text string
	switch firstByte(raw) {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%v", err)
		}
		text = strings.TrimSpace(text)
	default:
		text = string(bytes.TrimSpace(raw))
		base = 10
	}
	if text == "" {
		return nil, errors.Wrap(ErrMalformed, "empty value")
	}
	v, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, errors.Wrapf(ErrMalformed, "%q is not a base %d integer", text, base)
	}
	return v, nil
}

func firstByte(raw jsoniter.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
