package diffsquare

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/diffsquare/diffsquare/internal/audit"
	"github.com/diffsquare/diffsquare/internal/cache"
	"github.com/diffsquare/diffsquare/internal/engine"
	"github.com/diffsquare/diffsquare/internal/fermat"
	"github.com/diffsquare/diffsquare/internal/logger"
	"github.com/diffsquare/diffsquare/internal/metrics"
	"github.com/diffsquare/diffsquare/internal/report"
	"github.com/diffsquare/diffsquare/internal/types"
	"github.com/diffsquare/diffsquare/internal/update"
)

// progressEvery bounds how often the progress line is redrawn.
const progressEvery = 100 * time.Millisecond

// runner wires a run to the checkpoint cache, metrics, and history.
type runner struct {
	s       settings
	dir     string
	db      cache.DB
	dirty   bool
	metrics *metrics.Collector
}

func newRunner(s settings) *runner {
	r := &runner{s: s, db: cache.DB{Entries: map[string]cache.Checkpoint{}}}
	dir, err := cache.Dir(s.cacheDir)
	if err != nil {
		logger.Warn("no cache directory; checkpoints and history disabled", "error", err)
	} else {
		r.dir = dir
		db, err := cache.Load(dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("checkpoint cache unreadable; starting fresh", "dir", dir, "error", err)
		}
		r.db = db
	}
	if s.metricsFile != "" {
		r.metrics = metrics.New()
	}
	return r
}

// engineConfig builds the engine configuration for moduli. With resume set,
// stored checkpoints are snapshotted up front so workers never touch the
// cache while results are being recorded.
func (r *runner) engineConfig(moduli []*big.Int, resume bool) engine.Config {
	cfg := engine.Config{
		Threads:        r.s.threads,
		Timeout:        r.s.timeout,
		ReportInterval: r.s.interval,
	}
	if resume {
		starts := make(map[string]*big.Int, len(moduli))
		for _, n := range moduli {
			if it := r.db.Lookup(n); it != nil {
				starts[cache.Key(n)] = it
				logger.Info("resuming from checkpoint", "bits", n.BitLen(), "iteration", it)
			}
		}
		cfg.Checkpoint = func(n *big.Int) *big.Int { return starts[cache.Key(n)] }
	}
	if r.metrics != nil {
		cfg.Metrics = r.metrics
	}
	return cfg
}

// progress returns a throttled progress sink drawing on stderr, or nil when
// progress should not be shown.
func (r *runner) progress(prefixIndex bool) (func(int, fermat.Observation), *report.ProgressWriter) {
	if r.s.quiet || !isTerminal(os.Stderr) {
		return nil, nil
	}
	switch r.s.format {
	case report.FormatText, report.FormatTable:
	default:
		return nil, nil
	}
	pw := report.NewProgressWriter(os.Stderr, r.s.digits())
	lim := rate.NewLimiter(rate.Every(progressEvery), 1)
	return func(i int, o fermat.Observation) {
		if !o.Final && !lim.Allow() {
			return
		}
		if !prefixIndex {
			i = -1
		}
		pw.Update(i, o)
	}, pw
}

// record updates the checkpoint cache from a finished job: abandoned jobs
// leave a resume point, verdicts clear it.
func (r *runner) record(j types.JobResult) {
	if r.dir == "" {
		return
	}
	if j.Outcome.Abandoned() {
		if j.Iteration != nil {
			r.db.Store(j.Modulus, j.Iteration)
			r.dirty = true
		}
		return
	}
	if r.db.Lookup(j.Modulus) != nil {
		r.db.Forget(j.Modulus)
		r.dirty = true
	}
}

// finish persists checkpoints, metrics, and history. Failures are logged and
// never change the outcome of the run.
func (r *runner) finish(command string, jobs []types.JobResult, threads int, d time.Duration) {
	if r.dirty {
		if err := cache.Save(r.dir, r.db); err != nil {
			logger.Warn("failed to save checkpoints", "dir", r.dir, "error", err)
		}
	}
	if r.metrics != nil {
		if err := r.metrics.WriteTextfile(r.s.metricsFile); err != nil {
			logger.Warn("failed to write metrics", "path", r.s.metricsFile, "error", err)
		}
	}
	if r.s.audit && r.dir != "" {
		log := audit.NewAuditLog(r.dir)
		if err := log.LogRun(audit.CreateRunRecord(command, jobs, threads, d)); err != nil {
			logger.Warn("failed to record run history", "error", err)
		}
	}
	logger.Info("run finished", "command", command, "jobs", len(jobs), "duration_ms", float64(d.Microseconds())/1000)
}

// render writes jobs to stdout in the selected format.
func (r *runner) render(jobs []types.JobResult, single bool, threads int, d time.Duration) error {
	out := os.Stdout
	color := colorEnabled(out, r.s.noColor)
	opts := report.PrintOptions{NoColor: !color, Duration: d, Threads: threads}
	if r.s.precision >= 0 {
		opts.Digits = r.s.digits()
	}
	switch r.s.format {
	case report.FormatJSON:
		return report.PrintJSON(out, jobs, color)
	case report.FormatCSV:
		return report.PrintCSV(out, jobs)
	case report.FormatTable:
		report.PrintTable(out, jobs, opts)
	case report.FormatTime:
		report.PrintTime(out, d)
	default:
		if single && len(jobs) == 1 {
			if r.s.quiet {
				opts.Duration = 0
			}
			report.PrintFactors(out, jobs[0], opts)
			return nil
		}
		report.PrintText(out, jobs, opts)
	}
	return nil
}

// notifyUpdate prints a one-line notice when a newer release exists.
func (r *runner) notifyUpdate() {
	if !r.s.updateCheck || r.s.quiet || r.s.format != report.FormatText || !isTerminal(os.Stderr) {
		return
	}
	if latest, newer, _ := update.Check(version, false); newer && latest != "" {
		_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'diffsquare update' to upgrade\n", latest)
	}
}

func exitFor(jobs []types.JobResult) error {
	if code := report.ExitCode(jobs); code != report.ExitOK {
		return exitError{code: code}
	}
	return nil
}
