package report

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/diffsquare/diffsquare/internal/types"
)

// Record is the machine-readable form of a job. Integers are decimal strings
// because they routinely exceed 64 bits.
type Record struct {
	Index     int     `json:"index"`
	Modulus   string  `json:"modulus"`
	Outcome   string  `json:"outcome"`
	P         string  `json:"p,omitempty"`
	Q         string  `json:"q,omitempty"`
	Iteration string  `json:"iteration"`
	SqrtCalls uint64  `json:"sqrt_calls"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// Records converts jobs to their machine-readable form.
func Records(jobs []types.JobResult) []Record {
	out := make([]Record, 0, len(jobs))
	for _, r := range jobs {
		out = append(out, Record{
			Index:     r.Index,
			Modulus:   str(r.Modulus),
			Outcome:   string(r.Outcome),
			P:         str(r.P),
			Q:         str(r.Q),
			Iteration: str(r.Iteration),
			SqrtCalls: r.SqrtCalls,
			ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000,
		})
	}
	return out
}

func str(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// PrintJSON writes jobs as an indented JSON array. With color set the output
// is syntax highlighted for a terminal.
func PrintJSON(w io.Writer, jobs []types.JobResult, color bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(jobs)); err != nil {
		return err
	}
	if !color {
		_, err := w.Write(buf.Bytes())
		return err
	}
	_, err := io.WriteString(w, highlightJSON(buf.String()))
	return err
}

func highlightJSON(src string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return src
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}
