package core

import (
	"context"
	"math/big"

	"github.com/diffsquare/diffsquare/internal/engine"
	"github.com/diffsquare/diffsquare/internal/input"
	"github.com/diffsquare/diffsquare/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Result = engine.Result
type JobResult = types.JobResult
type Outcome = types.Outcome

const (
	OutcomeFound     = types.OutcomeFound
	OutcomeTrivial   = types.OutcomeTrivial
	OutcomeExhausted = types.OutcomeExhausted
	OutcomeTimeout   = types.OutcomeTimeout
	OutcomeCanceled  = types.OutcomeCanceled
)

// ErrMalformed is returned by ParseModulus for unparseable input.
var ErrMalformed = input.ErrMalformed

// ParseModulus parses decimal, 0x-hex, or scientific notation into a positive integer.
func ParseModulus(s string) (*big.Int, error) {
	return input.ParseModulus(s)
}

// Factor searches n from the first iteration until it reaches a verdict or
// ctx is done.
func Factor(ctx context.Context, n *big.Int) (JobResult, error) {
	res, err := engine.Run(ctx, Config{Threads: 1}, []*big.Int{n})
	if err != nil {
		return JobResult{}, err
	}
	return res.Jobs[0], nil
}

// FactorBatch factors moduli concurrently; results are in input order.
func FactorBatch(ctx context.Context, cfg Config, moduli []*big.Int) (Result, error) {
	return engine.Run(ctx, cfg, moduli)
}
