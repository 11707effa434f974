package square

import "math/big"

var bigModulus = new(big.Int).SetUint64(Modulus)

// IsProbablySquare reports whether v can be a perfect square. A false result is
// definitive; a true result must be confirmed with SqrtExact. Negative values
// are never squares.
func IsProbablySquare(v *big.Int) bool {
	if v.Sign() < 0 {
		return false
	}
	var r big.Int
	r.Mod(v, bigModulus)
	return IsProbablyResidue(r.Uint64())
}

// IsProbablyResidue is IsProbablySquare for a value already reduced modulo
// Modulus. Tables are checked in order and the first non-residue short-circuits.
func IsProbablyResidue(r uint64) bool {
	for i := range Tables {
		t := &Tables[i]
		if !t.Residue[r%t.P] {
			return false
		}
	}
	return true
}
