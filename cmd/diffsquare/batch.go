package diffsquare

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/engine"
	"github.com/diffsquare/diffsquare/internal/fermat"
	"github.com/diffsquare/diffsquare/internal/input"
	"github.com/diffsquare/diffsquare/internal/report"
	"github.com/diffsquare/diffsquare/internal/tui"
	"github.com/diffsquare/diffsquare/internal/types"
)

var (
	flagInputs []string
	flagTUI    bool
	flagSorted bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "batch [moduli...]",
		Short: "Factor many moduli concurrently",
		Long: "Factor many moduli on a bounded worker pool. Moduli come from arguments, from files matched by\n" +
			"--input globs (one per line, # comments), or from stdin when an argument is \"-\".",
		Example: `  diffsquare batch 5959 0x1747 1e6
  diffsquare batch --input 'moduli/**/*.txt' --threads 8 --timeout 1m
  cat moduli.txt | diffsquare batch - --json`,
		RunE: runBatch,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringArrayVar(&flagInputs, "input", nil, "glob of files with one modulus per line (repeatable, ** supported)")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "concurrent jobs (0 = GOMAXPROCS)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-job time limit (e.g. 30s); 0 = none")
	cmd.Flags().Uint64Var(&flagInterval, "interval", 0, "iterations between progress reports (default 1000000)")
	cmd.Flags().IntVarP(&flagPrecision, "prec", "p", -1, "print numbers in scientific notation with this many digits after the point")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "no progress output")
	cmd.Flags().BoolVar(&flagResume, "resume", false, "continue each modulus from its saved checkpoint")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "show a live interactive view")
	cmd.Flags().BoolVar(&flagSorted, "sorted", false, "print text results in input order once all jobs finish")
}

func runBatch(cmd *cobra.Command, args []string) error {
	s := current
	entries, err := input.Collect(args, flagInputs, os.Stdin)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no moduli given: pass them as arguments, with --input, or via stdin using '-'")
	}
	moduli := input.Values(entries)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := newRunner(s)
	cfg := r.engineConfig(moduli, flagResume)
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	started := time.Now()
	var jobs []types.JobResult
	switch {
	case flagTUI:
		if !isTerminal(os.Stdout) {
			return errors.New("--tui needs an interactive terminal")
		}
		err = tui.Run(ctx, moduli, func(ctx context.Context, progress func(int, fermat.Observation), result func(types.JobResult)) error {
			cfg.Progress = progress
			return engine.Stream(ctx, cfg, moduli, func(j types.JobResult) {
				jobs = append(jobs, j)
				r.record(j)
				result(j)
			})
		})
	case s.format == report.FormatText && !flagSorted:
		r.notifyUpdate()
		progress, pw := r.progress(true)
		cfg.Progress = progress
		opts := report.PrintOptions{NoColor: !colorEnabled(os.Stdout, s.noColor)}
		if s.precision >= 0 {
			opts.Digits = s.digits()
		}
		err = engine.Stream(ctx, cfg, moduli, func(j types.JobResult) {
			jobs = append(jobs, j)
			r.record(j)
			if pw != nil {
				pw.Done()
			}
			report.PrintLine(os.Stdout, j, opts)
		})
		if pw != nil {
			pw.Done()
		}
		if err == nil {
			sortJobs(jobs)
			opts.Duration = time.Since(started)
			opts.Threads = threads
			report.PrintFooter(os.Stdout, jobs, opts)
		}
	default:
		r.notifyUpdate()
		progress, pw := r.progress(true)
		cfg.Progress = progress
		var res engine.Result
		res, err = engine.Run(ctx, cfg, moduli)
		if pw != nil {
			pw.Done()
		}
		jobs = res.Jobs
		for _, j := range jobs {
			r.record(j)
		}
	}
	if err != nil {
		return err
	}
	sortJobs(jobs)
	elapsed := time.Since(started)
	r.finish("batch", jobs, threads, elapsed)

	streamed := !flagTUI && s.format == report.FormatText && !flagSorted
	if !streamed {
		if err := r.render(jobs, false, threads, elapsed); err != nil {
			return err
		}
	}
	return exitFor(jobs)
}

func sortJobs(jobs []types.JobResult) {
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })
}
