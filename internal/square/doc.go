// Package square holds the two numeric primitives of the Fermat search: a
// quadratic-residue filter that cheaply rejects most non-squares, and an exact
// integer square-root oracle used only for the candidates the filter lets through.
package square
