package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/diffsquare/diffsquare/internal/audit"
)

// PrintHistory lists past runs, newest first.
func PrintHistory(w io.Writer, records []audit.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"When", "Run", "Command", "Jobs", "Outcomes", "Duration"})
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

	for _, r := range records {
		id := r.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append([]string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			id,
			r.Command,
			fmt.Sprint(r.Jobs),
			outcomeSummary(r.Outcomes),
			r.Duration,
		})
	}
	table.Render()
}

// PrintHistoryJSON writes records as an indented JSON array.
func PrintHistoryJSON(w io.Writer, records []audit.RunRecord) error {
	if records == nil {
		records = []audit.RunRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func outcomeSummary(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
