// Package fermat implements Fermat's difference-of-squares search. Starting
// from a = ceil(sqrt(n)) it walks a upward, keeping x2 = a^2 - n up to date by
// addition only, until x2 is a perfect square x^2 and n = (a-x)(a+x).
//
// Most candidates are rejected by square.IsProbablyResidue on a running
// residue of x2, so the exact square root runs only on the few that survive.
// A search is strictly sequential; run several in parallel with package engine.
package fermat
