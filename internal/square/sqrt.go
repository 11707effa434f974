package square

import "math/big"

var one = big.NewInt(1)

// SqrtExact returns the floor square root of v and whether it is exact
// (root*root == v). It panics if v is negative.
func SqrtExact(v *big.Int) (bool, *big.Int) {
	root := new(big.Int).Sqrt(v)
	var sq big.Int
	sq.Mul(root, root)
	return sq.Cmp(v) == 0, root
}

// SqrtCeil returns the smallest integer r with r*r >= v.
func SqrtCeil(v *big.Int) *big.Int {
	exact, root := SqrtExact(v)
	if !exact {
		root.Add(root, one)
	}
	return root
}
