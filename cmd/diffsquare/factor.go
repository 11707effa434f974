package diffsquare

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/engine"
	"github.com/diffsquare/diffsquare/internal/input"
	"github.com/diffsquare/diffsquare/internal/logger"
	"github.com/diffsquare/diffsquare/internal/prompt"
)

// defaultModulus is the 1024-bit modulus factored when none is given.
const defaultModulus = "179769313486231590772930519078902473361797697894230657273430081157732675805505620686985379449212982959585501387537164015710139858647833778606925583497541085196591615128057575940752635007475935288710823649949940771895617054361149474865046711015101563940680527540071584560878577663743040086340742855278549092581"

var (
	flagModulus  string
	flagIter     string
	flagCopy     bool
	flagNoPrompt bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "factor [modulus]",
		Short: "Factor a single modulus",
		Long: "Factor a single modulus. Values may be decimal, 0x-prefixed hex, or scientific notation (5.959e3).\n" +
			"Without a modulus the built-in 1024-bit default is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: runFactor,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagModulus, "mod", "n", "", "modulus to factor")
	cmd.Flags().StringVarP(&flagIter, "iter", "i", "", "starting iteration (prompted if not given)")
	cmd.Flags().IntVarP(&flagPrecision, "prec", "p", -1, "digits after the point in scientific notation (prompted if not given)")
	cmd.Flags().Uint64Var(&flagInterval, "interval", 0, "iterations between progress reports (default 1000000)")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "no prompts and no progress output")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "give up after this long (e.g. 30s); 0 = never")
	cmd.Flags().BoolVar(&flagResume, "resume", false, "continue from the checkpoint saved by a timed-out or interrupted run")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the factors to the clipboard")
	cmd.Flags().BoolVar(&flagNoPrompt, "no-prompt", false, "never prompt; use defaults for missing values")
}

func runFactor(cmd *cobra.Command, args []string) error {
	s := current
	raw := flagModulus
	if raw == "" && len(args) == 1 {
		raw = args[0]
	}
	if raw == "" {
		raw = defaultModulus
	}
	n, err := input.ParseModulus(raw)
	if err != nil {
		return err
	}

	interactive := !s.quiet && !flagNoPrompt && isTerminal(os.Stdin)
	var start *big.Int
	switch {
	case flagIter != "":
		if start, err = input.ParseInteger(flagIter); err != nil {
			return fmt.Errorf("--iter: %w", err)
		}
	case interactive && !flagResume:
		if start, err = prompt.Iteration("1"); err != nil {
			return promptErr(err)
		}
	}
	if s.precision < 0 && interactive {
		p, err := prompt.Precision(defaultPrecision)
		if err != nil {
			return promptErr(err)
		}
		s.precision = p
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := newRunner(s)
	r.notifyUpdate()
	moduli := []*big.Int{n}
	cfg := r.engineConfig(moduli, flagResume && start == nil)
	cfg.Threads = 1
	if start != nil {
		cfg.Checkpoint = func(*big.Int) *big.Int { return start }
	}
	progress, pw := r.progress(false)
	cfg.Progress = progress

	logger.Debug("factor", "bits", n.BitLen(), "timeout", s.timeout)
	res, err := engine.Run(ctx, cfg, moduli)
	if pw != nil {
		pw.Done()
	}
	if err != nil {
		return err
	}

	job := res.Jobs[0]
	r.record(job)
	r.finish("factor", res.Jobs, 1, res.Duration)
	if err := r.render(res.Jobs, true, 0, res.Duration); err != nil {
		return err
	}
	if flagCopy && job.Found() {
		if err := clipboard.WriteAll(fmt.Sprintf("%s\n%s", job.P, job.Q)); err != nil {
			logger.Warn("failed to copy factors to clipboard", "error", err)
		} else if !s.quiet {
			_, _ = fmt.Fprintln(os.Stderr, "factors copied to clipboard")
		}
	}
	return exitFor(res.Jobs)
}

func promptErr(err error) error {
	if errors.Is(err, prompt.ErrAborted) {
		return errors.New("aborted")
	}
	return err
}
