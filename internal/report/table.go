package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/diffsquare/diffsquare/internal/types"
)

// PrintTable writes jobs as an aligned table followed by the summary footer.
func PrintTable(w io.Writer, jobs []types.JobResult, opts PrintOptions) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No moduli given")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Index", "Modulus", "Outcome", "P", "Q", "Iteration", "Elapsed"})

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, r := range jobs {
		table.Append([]string{
			fmt.Sprint(r.Index),
			display(r.Modulus, opts.Digits),
			string(r.Outcome),
			display(r.P, opts.Digits),
			display(r.Q, opts.Digits),
			iterations(r),
			r.Elapsed.Round(time.Microsecond).String(),
		})
	}
	table.Render()
	PrintFooter(w, jobs, opts)
}
