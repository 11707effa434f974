package report

import (
	"math/big"
	"strconv"
	"strings"
)

var bigOne = big.NewInt(1)

// SciNotation formats n with at most digits significant digits, rounding
// toward negative infinity and always signing the exponent ("5.95e+3").
// Values that fit in digits are printed in full. Trailing zeros of the
// mantissa are dropped.
func SciNotation(n *big.Int, digits int) string {
	if digits < 1 {
		digits = 1
	}
	neg := n.Sign() < 0
	mag := new(big.Int).Abs(n)
	s := mag.String()
	if len(s) <= digits {
		return n.String()
	}
	exp := len(s) - 1
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(s)-digits)), nil)
	m, rem := new(big.Int).QuoRem(mag, scale, new(big.Int))
	if neg && rem.Sign() != 0 {
		m.Add(m, bigOne)
	}
	ms := m.String()
	if len(ms) > digits {
		// carried into a new digit, e.g. 99 -> 100
		ms = ms[:digits]
		exp++
	}
	ms = strings.TrimRight(ms, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte(ms[0])
	if len(ms) > 1 {
		b.WriteByte('.')
		b.WriteString(ms[1:])
	}
	b.WriteString("e+")
	b.WriteString(strconv.Itoa(exp))
	return b.String()
}

func display(n *big.Int, digits int) string {
	if n == nil {
		return "-"
	}
	if digits > 0 {
		return SciNotation(n, digits)
	}
	return n.String()
}
