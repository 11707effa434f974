package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/diffsquare/diffsquare/internal/types"
)

// PrintCSV writes jobs as CSV with a header row.
func PrintCSV(w io.Writer, jobs []types.JobResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "modulus", "outcome", "p", "q", "iteration", "sqrt_calls", "elapsed_ms"}); err != nil {
		return err
	}
	for _, r := range Records(jobs) {
		row := []string{
			fmt.Sprint(r.Index), r.Modulus, r.Outcome, r.P, r.Q, r.Iteration,
			fmt.Sprint(r.SqrtCalls), fmt.Sprintf("%.3f", r.ElapsedMS),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
