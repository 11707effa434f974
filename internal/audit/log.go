// Package audit keeps a JSONL history of factorization runs.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/diffsquare/diffsquare/internal/types"
)

type RunRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Command   string         `json:"command"`
	Jobs      int            `json:"jobs"`
	Threads   int            `json:"threads,omitempty"`
	Outcomes  map[string]int `json:"outcomes"`
	Duration  string         `json:"duration"`
	Results   []JobSummary   `json:"results,omitempty"`
}

type JobSummary struct {
	Modulus   string `json:"modulus"`
	Outcome   string `json:"outcome"`
	P         string `json:"p,omitempty"`
	Q         string `json:"q,omitempty"`
	Iteration string `json:"iteration"`
}

// maxResults bounds how many per-job summaries one record keeps.
const maxResults = 100

type AuditLog struct {
	logPath string
}

func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{logPath: filepath.Join(dir, "history.jsonl")}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns records newest first. Undecodable lines are skipped.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audit dir: %w", err)
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// Clear removes the log. A missing log is not an error.
func (a *AuditLog) Clear() error {
	if err := os.Remove(a.logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear audit log: %w", err)
	}
	return nil
}

func CreateRunRecord(command string, jobs []types.JobResult, threads int, duration time.Duration) RunRecord {
	outcomes := make(map[string]int)
	for _, j := range jobs {
		outcomes[string(j.Outcome)]++
	}

	results := make([]JobSummary, 0, min(len(jobs), maxResults))
	for i, j := range jobs {
		if i >= maxResults {
			break
		}
		results = append(results, JobSummary{
			Modulus:   text(j.Modulus),
			Outcome:   string(j.Outcome),
			P:         text(j.P),
			Q:         text(j.Q),
			Iteration: text(j.Iteration),
		})
	}

	return RunRecord{
		Timestamp: time.Now(),
		RunID:     uuid.NewString(),
		Command:   command,
		Jobs:      len(jobs),
		Threads:   threads,
		Outcomes:  outcomes,
		Duration:  duration.String(),
		Results:   results,
	}
}

func text(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}
