// Package report renders job results as text, tables, JSON, CSV, or a bare
// elapsed time, and maps outcomes to process exit codes.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTime  Format = "time"
)

// ParseFormat parses a format name. The empty string is FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "time":
		return FormatTime, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: text, table, json, csv, time)", s)
	}
}

// PrintOptions tune rendering.
type PrintOptions struct {
	NoColor bool
	// Digits is the number of significant digits used for scientific
	// notation. Zero prints full decimal values.
	Digits   int
	Duration time.Duration
	Threads  int
}
