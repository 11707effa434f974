package square

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_Lengths(t *testing.T) {
	require.Len(t, Tables, len(SievePrimes))
	for _, tbl := range Tables {
		assert.Len(t, tbl.Residue, int(tbl.P), "table length for p=%d", tbl.P)
		assert.True(t, tbl.Residue[0], "residue 0 must pass for p=%d", tbl.P)
	}
}

func TestTables_MarkEveryQuadraticResidue(t *testing.T) {
	for _, tbl := range Tables {
		for a := uint64(1); a < tbl.P; a++ {
			r := (a * a) % tbl.P
			assert.True(t, tbl.Residue[r], "a=%d, a^2 mod %d = %d should be a residue", a, tbl.P, r)
		}
	}
}

func TestTables_RejectNonResidues(t *testing.T) {
	// Exactly (p-1)/2 nonzero residues exist for an odd prime.
	for _, tbl := range Tables {
		n := 0
		for r := uint64(1); r < tbl.P; r++ {
			if tbl.Residue[r] {
				n++
			}
		}
		assert.Equal(t, int(tbl.P-1)/2, n, "p=%d", tbl.P)
	}
}

func TestModulus(t *testing.T) {
	assert.Equal(t, uint64(100280245065), Modulus)
}

func TestIsProbablySquare_PerfectSquares(t *testing.T) {
	for _, n := range []int64{0, 1, 4, 9, 16, 25, 36, 49, 64, 81, 100} {
		assert.True(t, IsProbablySquare(big.NewInt(n)), "%d is a perfect square", n)
	}
}

func TestIsProbablySquare_NonSquares(t *testing.T) {
	for _, n := range []int64{2, 3, 5, 6, 7, 8, 10, 11, 12, 14, 15} {
		assert.False(t, IsProbablySquare(big.NewInt(n)), "%d is not a perfect square", n)
	}
}

func TestIsProbablySquare_Negative(t *testing.T) {
	assert.False(t, IsProbablySquare(big.NewInt(-4)))
}

func TestIsProbablySquare_NoFalseNegatives(t *testing.T) {
	for k := int64(0); k*k < 100000; k++ {
		v := big.NewInt(k * k)
		if !IsProbablySquare(v) {
			t.Fatalf("false negative for %d", k*k)
		}
	}
	// large squares, reduced modulo the sieve product
	k := new(big.Int).Lsh(big.NewInt(1), 300)
	for i := 0; i < 500; i++ {
		k.Add(k, big.NewInt(7919))
		v := new(big.Int).Mul(k, k)
		require.True(t, IsProbablySquare(v), "false negative for (%s)^2", k)
	}
}

func TestIsProbablySquare_RejectsMostNonSquares(t *testing.T) {
	passed := 0
	total := 0
	for v := int64(0); v < 100000; v++ {
		if exact, _ := SqrtExact(big.NewInt(v)); exact {
			continue
		}
		total++
		if IsProbablySquare(big.NewInt(v)) {
			passed++
		}
	}
	// each table roughly halves the survivors
	assert.Less(t, float64(passed)/float64(total), 0.02)
}

func TestIsProbablyResidue_MatchesBigPath(t *testing.T) {
	for v := uint64(0); v < 5000; v++ {
		assert.Equal(t, IsProbablySquare(new(big.Int).SetUint64(v)), IsProbablyResidue(v%Modulus), "v=%d", v)
	}
}

func TestSqrtExact(t *testing.T) {
	cases := []struct {
		v     int64
		exact bool
		root  int64
	}{
		{0, true, 0},
		{1, true, 1},
		{2, false, 1},
		{3, false, 1},
		{4, true, 2},
		{15, false, 3},
		{16, true, 4},
		{17, false, 4},
		{10201, true, 101},
	}
	for _, c := range cases {
		exact, root := SqrtExact(big.NewInt(c.v))
		assert.Equal(t, c.exact, exact, "v=%d", c.v)
		assert.Equal(t, c.root, root.Int64(), "v=%d", c.v)
	}
}

func TestSqrtCeil(t *testing.T) {
	cases := map[int64]int64{0: 0, 1: 1, 2: 2, 4: 2, 5: 3, 9: 3, 10: 4, 5959: 78}
	for v, want := range cases {
		assert.Equal(t, want, SqrtCeil(big.NewInt(v)).Int64(), "v=%d", v)
	}
}

func TestSqrtExact_Large(t *testing.T) {
	k, ok := new(big.Int).SetString("123456789012345678901234567890123456789", 10)
	require.True(t, ok)
	v := new(big.Int).Mul(k, k)
	exact, root := SqrtExact(v)
	assert.True(t, exact)
	assert.Equal(t, 0, root.Cmp(k))

	v.Add(v, big.NewInt(1))
	exact, root = SqrtExact(v)
	assert.False(t, exact)
	assert.Equal(t, 0, root.Cmp(k))
	assert.Equal(t, 0, SqrtCeil(v).Cmp(new(big.Int).Add(k, big.NewInt(1))))
}

func BenchmarkIsProbablySquare(b *testing.B) {
	v, _ := new(big.Int).SetString("179769313486231590772930519078902473361797697894230657273430081157732675805505620686985379449212982959585501387537164015710139858647833778606925583497541085196591615128057575940752635007475935288710823649949940771895617054361149474865046711015101563940680527540071584560878577663743040086340742855278549092581", 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IsProbablySquare(v)
	}
}

func BenchmarkSqrtExact(b *testing.B) {
	v, _ := new(big.Int).SetString("179769313486231590772930519078902473361797697894230657273430081157732675805505620686985379449212982959585501387537164015710139858647833778606925583497541085196591615128057575940752635007475935288710823649949940771895617054361149474865046711015101563940680527540071584560878577663743040086340742855278549092581", 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SqrtExact(v)
	}
}
