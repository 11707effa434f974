package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diffsquare/diffsquare/internal/fermat"
	"github.com/diffsquare/diffsquare/internal/logger"
	"github.com/diffsquare/diffsquare/internal/types"
)

// ErrInvalidModulus is returned when a modulus is nil or not positive.
var ErrInvalidModulus = errors.New("invalid modulus")

// Config controls a batch run. The zero value runs every job to completion on
// GOMAXPROCS workers from iteration 1.
type Config struct {
	// Threads bounds how many searches run at once (0 = GOMAXPROCS).
	Threads int
	// Timeout bounds the wall-clock wait per job (0 = none). A job that
	// outlives it is reported as types.OutcomeTimeout right away; its search
	// is told to stop but is not waited for.
	Timeout time.Duration
	// ReportInterval is passed to every search (0 = fermat.DefaultReportInterval).
	ReportInterval uint64
	// Checkpoint, when set, returns the iteration to resume a modulus from.
	// Returning nil starts at 1.
	Checkpoint func(n *big.Int) *big.Int
	// Progress receives observations tagged with the job index. It is called
	// from worker goroutines, possibly concurrently.
	Progress func(index int, obs fermat.Observation)
	// Metrics is optional.
	Metrics Metrics
}

// Metrics observes job lifecycles. A nil Metrics disables collection.
type Metrics interface {
	JobStarted()
	JobFinished(r types.JobResult)
}

// Result contains per-job results ordered by input index plus batch statistics.
type Result struct {
	Jobs     []types.JobResult
	Threads  int
	Duration time.Duration
}

// Count returns how many jobs ended with outcome o.
func (r Result) Count(o types.Outcome) int {
	n := 0
	for _, j := range r.Jobs {
		if j.Outcome == o {
			n++
		}
	}
	return n
}

func threads(cfg Config) int {
	if cfg.Threads <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return cfg.Threads
}

func validate(moduli []*big.Int) error {
	for i, n := range moduli {
		if n == nil || n.Sign() <= 0 {
			return fmt.Errorf("%w at index %d: must be a positive integer", ErrInvalidModulus, i)
		}
	}
	return nil
}

// Run factors every modulus and returns results sorted by input index.
// Cancelling ctx stops outstanding jobs, which are reported as canceled.
func Run(ctx context.Context, cfg Config, moduli []*big.Int) (Result, error) {
	started := time.Now()
	out := make([]types.JobResult, 0, len(moduli))
	err := Stream(ctx, cfg, moduli, func(r types.JobResult) {
		out = append(out, r)
	})
	if err != nil {
		return Result{}, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return Result{Jobs: out, Threads: threads(cfg), Duration: time.Since(started)}, nil
}

// Stream factors every modulus and calls emit once per job in completion
// order. emit calls are serialized. Stream returns after every job has
// reported, which for timed-out jobs is before their searches stop.
func Stream(ctx context.Context, cfg Config, moduli []*big.Int, emit func(types.JobResult)) error {
	if err := validate(moduli); err != nil {
		return err
	}
	workers := threads(cfg)
	logger.Debug("batch started", "jobs", len(moduli), "threads", workers, "timeout", cfg.Timeout)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range moduli {
		g.Go(func() error {
			r := runJob(gctx, cfg, i, n)
			mu.Lock()
			emit(r)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func runJob(ctx context.Context, cfg Config, index int, n *big.Int) types.JobResult {
	var checkpoint *big.Int
	if cfg.Checkpoint != nil {
		checkpoint = cfg.Checkpoint(n)
	}
	start := big.NewInt(1)
	if checkpoint != nil && checkpoint.Cmp(start) > 0 {
		start.Set(checkpoint)
	}

	if cfg.Metrics != nil {
		cfg.Metrics.JobStarted()
	}
	log := logger.With("index", index, "bits", n.BitLen())
	log.Debug("job started", "checkpoint", start)

	r := execute(ctx, cfg, index, n, start)
	if cfg.Metrics != nil {
		cfg.Metrics.JobFinished(r)
	}
	if r.Outcome == types.OutcomeTimeout {
		log.Warn("job timed out", "timeout", cfg.Timeout, "resume_at", r.Iteration)
	} else {
		log.Debug("job finished", "outcome", r.Outcome, "iteration", r.Iteration, "elapsed", r.Elapsed)
	}
	return r
}

// execute runs one search. Without a timeout it runs inline; with one it
// races the search against a timer on a separate goroutine.
func execute(ctx context.Context, cfg Config, index int, n *big.Int, start *big.Int) types.JobResult {
	began := time.Now()
	if err := ctx.Err(); err != nil {
		return types.JobResult{Index: index, Modulus: n, Outcome: types.OutcomeCanceled, Iteration: start}
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// last is the most recent reporting checkpoint; it is the resume point
	// handed back when a job is abandoned mid-search.
	var last atomic.Pointer[big.Int]
	last.Store(new(big.Int).Set(start))
	var abandoned atomic.Bool

	opts := fermat.Options{
		Checkpoint:     start,
		ReportInterval: cfg.ReportInterval,
		Progress: func(o fermat.Observation) {
			if abandoned.Load() {
				return
			}
			last.Store(new(big.Int).Set(o.Iteration))
			if cfg.Progress != nil {
				cfg.Progress(index, o)
			}
		},
	}

	if cfg.Timeout <= 0 {
		return fromSearch(index, n, fermat.Search(jobCtx, n, opts))
	}

	done := make(chan fermat.Result, 1)
	go func() {
		done <- fermat.Search(jobCtx, n, opts)
	}()

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return fromSearch(index, n, res)
	case <-timer.C:
		abandoned.Store(true)
		return types.JobResult{Index: index, Modulus: n, Outcome: types.OutcomeTimeout, Iteration: last.Load(), Elapsed: time.Since(began)}
	case <-ctx.Done():
		abandoned.Store(true)
		return types.JobResult{Index: index, Modulus: n, Outcome: types.OutcomeCanceled, Iteration: last.Load(), Elapsed: time.Since(began)}
	}
}

func fromSearch(index int, n *big.Int, res fermat.Result) types.JobResult {
	return types.JobResult{
		Index:     index,
		Modulus:   n,
		Outcome:   res.Outcome,
		P:         res.P,
		Q:         res.Q,
		Iteration: res.Iteration,
		SqrtCalls: res.SqrtCalls,
		Elapsed:   res.Elapsed,
	}
}
