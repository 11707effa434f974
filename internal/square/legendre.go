package square

// Table marks, for a small prime P, which residues r in [0, P) are quadratic
// residues modulo P. Residue[0] is always true.
type Table struct {
	P       uint64
	Residue []bool
}

// SievePrimes are the primes the filter tests against.
var SievePrimes = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31}

// Tables is built once at init and never written again; it is safe to share
// across goroutines without locking.
var Tables = buildTables(SievePrimes)

// Modulus is the product of SievePrimes. Any v mod Modulus carries enough
// information to evaluate every table.
var Modulus = product(SievePrimes)

func buildTables(primes []uint64) []Table {
	out := make([]Table, 0, len(primes))
	for _, p := range primes {
		res := make([]bool, p)
		res[0] = true
		for j := uint64(1); j < p; j++ {
			res[(j*j)%p] = true
		}
		out = append(out, Table{P: p, Residue: res})
	}
	return out
}

func product(primes []uint64) uint64 {
	m := uint64(1)
	for _, p := range primes {
		m *= p
	}
	return m
}
