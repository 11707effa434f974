package core

import (
	"encoding/json"
	"io"

	"github.com/diffsquare/diffsquare/internal/report"
)

// Record is the JSON shape of a job; integers are decimal strings.
type Record = report.Record

// MarshalResults pretty-prints jobs as JSON for humans or pipelines.
func MarshalResults(w io.Writer, jobs []JobResult) error {
	return report.PrintJSON(w, jobs, false)
}

// UnmarshalResults decodes the output of MarshalResults.
func UnmarshalResults(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}
