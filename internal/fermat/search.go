package fermat

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/diffsquare/diffsquare/internal/square"
	"github.com/diffsquare/diffsquare/internal/types"
)

// DefaultReportInterval is the number of steps between progress observations.
const DefaultReportInterval = 1_000_000

// pollEvery is how many steps run between context checks.
const pollEvery = 4096

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Observation is a progress snapshot emitted at reporting checkpoints, and
// once more for the step that finds a factorization whatever the cadence. P
// and Q are the candidate factors a-floor(sqrt(x2)) and a+floor(sqrt(x2));
// they are only a real factorization when Final is set.
type Observation struct {
	Iteration *big.Int
	A         *big.Int
	P         *big.Int
	Q         *big.Int
	Final     bool
}

// ProgressFunc receives observations. It runs on the searching goroutine and
// must not retain the big.Int values past the call unless it copies them.
type ProgressFunc func(Observation)

// Options tune a single search.
type Options struct {
	// Checkpoint is the iteration to resume from. Nil or anything below 1 starts at 1.
	Checkpoint *big.Int
	// ReportInterval is the spacing of progress checkpoints; 0 means DefaultReportInterval.
	ReportInterval uint64
	// Progress is optional.
	Progress ProgressFunc
}

// Result is the verdict of one search.
type Result struct {
	Outcome types.Outcome
	P       *big.Int
	Q       *big.Int
	// Iteration is the step count reached; for abandoned searches it is a
	// valid Checkpoint to resume from.
	Iteration *big.Int
	// SqrtCalls counts exact square-root evaluations.
	SqrtCalls uint64
	Elapsed   time.Duration
}

// Found reports whether the search produced a nontrivial pair.
func (r Result) Found() bool {
	return r.Outcome == types.OutcomeFound
}

// state is the search state. x2 == a^2 - n and doubleA == 2a hold at the top
// of every loop turn; x2Res and doubleARes shadow x2 and doubleA modulo
// square.Modulus.
type state struct {
	a          *big.Int
	x2         *big.Int
	doubleA    *big.Int
	iteration  *big.Int
	x2Res      uint64
	doubleARes uint64
}

func newState(n, checkpoint *big.Int) *state {
	iteration := big.NewInt(1)
	if checkpoint != nil && checkpoint.Cmp(one) > 0 {
		iteration.Set(checkpoint)
	}
	a := square.SqrtCeil(n)
	if iteration.Cmp(one) > 0 {
		a.Add(a, new(big.Int).Sub(iteration, one))
	}
	x2 := new(big.Int).Mul(a, a)
	x2.Sub(x2, n)
	doubleA := new(big.Int).Mul(two, a)
	return &state{
		a:          a,
		x2:         x2,
		doubleA:    doubleA,
		iteration:  iteration,
		x2Res:      residue(x2),
		doubleARes: residue(doubleA),
	}
}

var bigModulus = new(big.Int).SetUint64(square.Modulus)

func residue(v *big.Int) uint64 {
	var r big.Int
	return r.Mod(v, bigModulus).Uint64()
}

// advance moves a to a+1 using (a+1)^2 = a^2 + 2a + 1.
func (s *state) advance() {
	s.a.Add(s.a, one)
	s.doubleA.Add(s.doubleA, one)
	s.x2.Add(s.x2, s.doubleA)
	s.doubleA.Add(s.doubleA, one)
	s.iteration.Add(s.iteration, one)

	s.doubleARes = (s.doubleARes + 1) % square.Modulus
	s.x2Res = (s.x2Res + s.doubleARes) % square.Modulus
	s.doubleARes = (s.doubleARes + 1) % square.Modulus
}

// Search looks for a nontrivial factorization of n. It returns OutcomeFound
// with p*q == n, OutcomeTrivial when the first exact square yields 1*n,
// OutcomeExhausted when a reaches n, and OutcomeTimeout or OutcomeCanceled
// when ctx ends first. n must be positive; the caller's n is not modified.
//
// A perfect square k^2 with k > 1 is reported as found (k, k).
func Search(ctx context.Context, n *big.Int, opts Options) Result {
	started := time.Now()
	interval := opts.ReportInterval
	if interval == 0 {
		interval = DefaultReportInterval
	}

	n = new(big.Int).Set(n)
	s := newState(n, opts.Checkpoint)
	res := Result{}

	// untilReport counts down to the next step where iteration % interval == 1.
	untilReport := stepsToReport(s.iteration, interval)
	untilPoll := uint64(pollEvery)

	for s.a.Cmp(n) < 0 {
		report := untilReport == 0
		candidate := report || square.IsProbablyResidue(s.x2Res)

		if candidate {
			res.SqrtCalls++
			exact, x := square.SqrtExact(s.x2)
			if exact {
				p := new(big.Int).Sub(s.a, x)
				q := new(big.Int).Add(s.a, x)
				res.Iteration = s.iteration
				res.Elapsed = time.Since(started)
				if p.Cmp(one) == 0 || q.Cmp(one) == 0 || p.Cmp(n) == 0 || q.Cmp(n) == 0 {
					res.Outcome = types.OutcomeTrivial
					return res
				}
				if opts.Progress != nil {
					opts.Progress(Observation{Iteration: s.iteration, A: s.a, P: p, Q: q, Final: true})
				}
				res.Outcome = types.OutcomeFound
				res.P, res.Q = p, q
				return res
			}
			if report && opts.Progress != nil {
				opts.Progress(Observation{
					Iteration: s.iteration,
					A:         s.a,
					P:         new(big.Int).Sub(s.a, x),
					Q:         new(big.Int).Add(s.a, x),
				})
			}
		}

		s.advance()

		if untilReport == 0 {
			untilReport = interval - 1
		} else {
			untilReport--
		}
		untilPoll--
		if untilPoll == 0 {
			untilPoll = pollEvery
			if err := ctx.Err(); err != nil {
				res.Outcome = abandonedOutcome(err)
				res.Iteration = s.iteration
				res.Elapsed = time.Since(started)
				return res
			}
		}
	}

	res.Outcome = types.OutcomeExhausted
	res.Iteration = s.iteration
	res.Elapsed = time.Since(started)
	return res
}

// stepsToReport returns how many advances remain until iteration % interval == 1.
func stepsToReport(iteration *big.Int, interval uint64) uint64 {
	if interval == 1 {
		return 0
	}
	var m big.Int
	m.Mod(iteration, new(big.Int).SetUint64(interval))
	r := m.Uint64()
	if r == 1 {
		return 0
	}
	if r == 0 {
		return 1
	}
	return interval - r + 1
}

func abandonedOutcome(err error) types.Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.OutcomeTimeout
	}
	return types.OutcomeCanceled
}
