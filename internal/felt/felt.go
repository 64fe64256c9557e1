// Package felt implements field elements of the Stark prime field used by Cairo.
package felt

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// PrimeString is the field modulus 2^251 + 17*2^192 + 1 in hex.
const PrimeString = "0x800000000000011000000000000000000000000000000000000000000000001"

var (
	prime    = uint256.MustFromHex(PrimeString)
	primeBig = prime.ToBig()
	halfP    = new(uint256.Int).Rsh(prime, 1)
)

var ErrInvalid = errors.New("felt: invalid field element")

// Felt is a field element, always reduced modulo the prime.
// The zero value is 0.
type Felt struct {
	n uint256.Int
}

// Prime returns the field modulus.
func Prime() *big.Int { return new(big.Int).Set(primeBig) }

// FromUint64 returns v as a field element.
func FromUint64(v uint64) Felt {
	var f Felt
	f.n.SetUint64(v)
	return f
}

// FromInt64 returns v as a field element; negative values map to P - |v|.
func FromInt64(v int64) Felt {
	if v >= 0 {
		return FromUint64(uint64(v))
	}
	var f Felt
	mag := uint256.NewInt(uint64(-(v + 1)) + 1)
	f.n.Sub(prime, mag)
	return f
}

// FromBig reduces b modulo the prime. Negative values use the canonical
// representative in [0, P).
func FromBig(b *big.Int) Felt {
	r := new(big.Int).Mod(b, primeBig)
	var f Felt
	f.n.SetFromBig(r)
	return f
}

// FromString parses a decimal or 0x-prefixed hex integer of any magnitude,
// optionally signed.
func FromString(s string) (Felt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Felt{}, fmt.Errorf("%w: empty", ErrInvalid)
	}
	digits, neg := s, false
	switch digits[0] {
	case '-':
		digits, neg = digits[1:], true
	case '+':
		digits = digits[1:]
	}
	base := 10
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits, base = digits[2:], 16
	}
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return Felt{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return Felt{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if neg {
		b.Neg(b)
	}
	return FromBig(b), nil
}

// MustFromString is FromString for constants known to be valid.
func MustFromString(s string) Felt {
	f, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Felt) IsZero() bool      { return f.n.IsZero() }
func (f Felt) Equal(o Felt) bool { return f.n.Eq(&o.n) }
func (f Felt) Cmp(o Felt) int    { return f.n.Cmp(&o.n) }
func (f Felt) Big() *big.Int     { return f.n.ToBig() }
func (f Felt) String() string    { return f.n.Dec() }
func (f Felt) Hex() string       { return f.n.Hex() }

// Uint64 returns the value if it fits in 64 bits.
func (f Felt) Uint64() (uint64, bool) {
	if !f.n.IsUint64() {
		return 0, false
	}
	return f.n.Uint64(), true
}

// Int64 interprets the element as signed: values above P/2 are negative.
// Reports false when the magnitude does not fit in an int64.
func (f Felt) Int64() (int64, bool) {
	if f.n.Gt(halfP) {
		var mag uint256.Int
		mag.Sub(prime, &f.n)
		if !mag.IsUint64() || mag.Uint64() > 1<<63 {
			return 0, false
		}
		return -int64(mag.Uint64() - 1) - 1, true
	}
	if !f.n.IsUint64() || f.n.Uint64() > 1<<63-1 {
		return 0, false
	}
	return int64(f.n.Uint64()), true
}

// MarshalJSON encodes the element as a decimal JSON number.
func (f Felt) MarshalJSON() ([]byte, error) {
	return []byte(f.n.Dec()), nil
}

// UnmarshalJSON accepts a JSON number or a string holding a decimal or hex integer.
func (f *Felt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("%w: null", ErrInvalid)
	}
	s = strings.Trim(s, `"`)
	v, err := FromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
