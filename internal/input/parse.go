// Package input turns user text into moduli: it parses decimal, 0x-prefixed
// hexadecimal, and scientific notation, and collects values from arguments,
// glob-matched files, and stdin.
package input

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrMalformed is returned for text that is not an integer in an accepted form.
var ErrMalformed = errors.New("invalid integer format")

// maxExponent caps scientific-notation exponents so "1e999999999" cannot
// trigger an enormous allocation.
const maxExponent = 100_000

// ParseInteger parses s as decimal, hexadecimal with a 0x/0X prefix, or
// scientific notation ("1e6", "5.959e3"). The value must be integral.
func ParseInteger(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok || strings.HasPrefix(s[2:], "-") || strings.HasPrefix(s[2:], "+") {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		return n, nil
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, nil
	}
	return parseScientific(s)
}

func parseScientific(s string) (*big.Int, error) {
	mant, exp, found := strings.Cut(strings.ToLower(s), "e")
	if !found || mant == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if e > maxExponent || e < -maxExponent {
		return nil, fmt.Errorf("%w: exponent %d out of range", ErrMalformed, e)
	}
	r, ok := new(big.Rat).SetString(mant)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(e))), nil)
	if e >= 0 {
		r.Mul(r, new(big.Rat).SetInt(scale))
	} else {
		r.Quo(r, new(big.Rat).SetInt(scale))
	}
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformed, s)
	}
	return new(big.Int).Set(r.Num()), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ParseModulus is ParseInteger restricted to positive values.
func ParseModulus(s string) (*big.Int, error) {
	n, err := ParseInteger(s)
	if err != nil {
		return nil, err
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive, got %s", ErrMalformed, n)
	}
	return n, nil
}
