package types

import (
	"math/big"
	"time"
)

// Outcome is the terminal state of one factorization job.
type Outcome string

const (
	// OutcomeFound means a nontrivial pair p*q == n was found.
	OutcomeFound Outcome = "found"
	// OutcomeTrivial means the first exact square implied 1*n; n is prime or 1 for this method.
	OutcomeTrivial Outcome = "trivial"
	// OutcomeExhausted means the candidate reached n without an exact square.
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeTimeout means the job outlived its deadline. It is never folded into the two above.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeCanceled means the caller canceled the run before the job finished.
	OutcomeCanceled Outcome = "canceled"
)

// Abandoned reports whether the job stopped before the search reached a verdict.
func (o Outcome) Abandoned() bool {
	return o == OutcomeTimeout || o == OutcomeCanceled
}

// JobResult is one modulus and what the search made of it. Index is the
// position of the modulus in the caller's input so unordered completions can
// be re-sorted.
type JobResult struct {
	Index     int           `json:"index"`
	Modulus   *big.Int      `json:"modulus"`
	Outcome   Outcome       `json:"outcome"`
	P         *big.Int      `json:"p,omitempty"`
	Q         *big.Int      `json:"q,omitempty"`
	Iteration *big.Int      `json:"iteration"`
	SqrtCalls uint64        `json:"sqrt_calls"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Found reports whether the job produced a factor pair.
func (r JobResult) Found() bool {
	return r.Outcome == OutcomeFound
}
