// Package core provides a small, stable facade over diffsquare's internal
// engine for programs that want Fermat factorization without the CLI.
//
// Example:
//
//	n, _ := core.ParseModulus("5959")
//	r, err := core.Factor(ctx, n)
//	if err != nil { /* handle */ }
//	if r.Found() { fmt.Println(r.P, r.Q) }
package core
