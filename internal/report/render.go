package report

import (
	"fmt"
	"io"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/diffsquare/diffsquare/internal/types"
)

// PrintFactors prints the verdict for a single modulus.
func PrintFactors(w io.Writer, r types.JobResult, opts PrintOptions) {
	if r.Found() {
		fmt.Fprintln(w, "✅ Factors of n:")
		fmt.Fprintf(w, "p =\n%s\n\n", r.P)
		fmt.Fprintf(w, "q =\n%s\n\n", r.Q)
	} else {
		fmt.Fprintf(w, "%s %s\n", marker(r.Outcome), describe(r))
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Iterations: %s\n", iterations(r))
		fmt.Fprintf(w, "Duration: %.3fs\n", opts.Duration.Seconds())
	}
}

// PrintText prints one line per job followed by a summary footer.
func PrintText(w io.Writer, jobs []types.JobResult, opts PrintOptions) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No moduli given")
		return
	}
	for _, r := range jobs {
		PrintLine(w, r, opts)
	}
	PrintFooter(w, jobs, opts)
}

// PrintLine prints the one-line summary of a job.
func PrintLine(w io.Writer, r types.JobResult, opts PrintOptions) {
	outcome := string(r.Outcome)
	if !opts.NoColor {
		outcome = colorOutcome(r.Outcome)
	}
	line := fmt.Sprintf("[%d] %s  n=%s", r.Index, outcome, display(r.Modulus, opts.Digits))
	if r.Found() {
		line += fmt.Sprintf("  p=%s  q=%s", display(r.P, opts.Digits), display(r.Q, opts.Digits))
	}
	line += "  iter=" + iterations(r)
	fmt.Fprintln(w, line)
}

// PrintFooter prints outcome counts and run statistics.
func PrintFooter(w io.Writer, jobs []types.JobResult, opts PrintOptions) {
	counts := map[types.Outcome]int{}
	for _, r := range jobs {
		counts[r.Outcome]++
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Jobs: %d (found: %d, trivial: %d, exhausted: %d, timeout: %d, canceled: %d)\n",
		len(jobs), counts[types.OutcomeFound], counts[types.OutcomeTrivial], counts[types.OutcomeExhausted],
		counts[types.OutcomeTimeout], counts[types.OutcomeCanceled])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Duration: %.3fs\n", opts.Duration.Seconds())
	}
	if opts.Threads > 0 {
		fmt.Fprintf(w, "Threads: %d\n", opts.Threads)
	}
}

// PrintTime prints only the elapsed wall-clock time.
func PrintTime(w io.Writer, d time.Duration) {
	fmt.Fprintf(w, "%.6f\n", d.Seconds())
}

func iterations(r types.JobResult) string {
	if r.Iteration == nil {
		return "0"
	}
	return humanize.BigComma(r.Iteration)
}

func describe(r types.JobResult) string {
	switch r.Outcome {
	case types.OutcomeTrivial:
		return "No nontrivial factors: the first square found gives 1 × n"
	case types.OutcomeExhausted:
		return "No factors: the search reached n without finding a square"
	case types.OutcomeTimeout:
		return fmt.Sprintf("Timed out; resume with --iter %s", r.Iteration)
	case types.OutcomeCanceled:
		return fmt.Sprintf("Canceled; resume with --iter %s", r.Iteration)
	default:
		return string(r.Outcome)
	}
}

func marker(o types.Outcome) string {
	if o.Abandoned() {
		return "⏱"
	}
	return "❌"
}

func colorOutcome(o types.Outcome) string {
	switch o {
	case types.OutcomeFound:
		return "\x1b[32mfound\x1b[0m" // green
	case types.OutcomeTimeout, types.OutcomeCanceled:
		return "\x1b[33m" + string(o) + "\x1b[0m" // yellow
	default:
		return "\x1b[31m" + string(o) + "\x1b[0m" // red
	}
}
