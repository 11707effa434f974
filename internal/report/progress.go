package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/diffsquare/diffsquare/internal/fermat"
)

// ProgressLine renders an observation the way the verbose output shows it.
func ProgressLine(obs fermat.Observation, digits int) string {
	return fmt.Sprintf("Iteration: %s p = %s q = %s",
		SciNotation(obs.Iteration, digits), SciNotation(obs.P, digits), SciNotation(obs.Q, digits))
}

// ProgressWriter overwrites a single terminal line with each observation.
// It is safe for concurrent use.
type ProgressWriter struct {
	mu     sync.Mutex
	w      io.Writer
	digits int
	width  int
}

// NewProgressWriter returns a writer that renders with digits significant digits.
func NewProgressWriter(w io.Writer, digits int) *ProgressWriter {
	return &ProgressWriter{w: w, digits: digits}
}

// Update redraws the line. A negative index omits the job prefix.
func (p *ProgressWriter) Update(index int, obs fermat.Observation) {
	line := ProgressLine(obs, p.digits)
	if index >= 0 {
		line = fmt.Sprintf("[%d] %s", index, line)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pad := p.width - len(line)
	p.width = len(line)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(p.w, "\r%s%*s", line, pad, "")
}

// Done ends the progress line if anything was drawn.
func (p *ProgressWriter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width > 0 {
		fmt.Fprintln(p.w)
		p.width = 0
	}
}
