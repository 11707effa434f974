package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffsquare/diffsquare/internal/audit"
	"github.com/diffsquare/diffsquare/internal/fermat"
	"github.com/diffsquare/diffsquare/internal/types"
)

func bi(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return n
}

func sampleJobs() []types.JobResult {
	return []types.JobResult{
		{Index: 0, Modulus: bi("5959"), Outcome: types.OutcomeFound, P: bi("59"), Q: bi("101"), Iteration: bi("3"), SqrtCalls: 1, Elapsed: time.Millisecond},
		{Index: 1, Modulus: bi("101"), Outcome: types.OutcomeTrivial, Iteration: bi("41")},
		{Index: 2, Modulus: bi("6"), Outcome: types.OutcomeExhausted, Iteration: bi("4")},
		{Index: 3, Modulus: bi("2761929023323646159"), Outcome: types.OutcomeTimeout, Iteration: bi("2000001")},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "table": FormatTable, " json ": FormatJSON, "csv": FormatCSV, "time": FormatTime} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestSciNotation(t *testing.T) {
	cases := []struct {
		n      string
		digits int
		want   string
	}{
		{"5959", 3, "5.95e+3"},
		{"5959", 4, "5959"},
		{"5959", 0, "5e+3"},
		{"120000", 3, "1.2e+5"},
		{"1000000", 1, "1e+6"},
		{"0", 3, "0"},
		{"-5959", 3, "-5.96e+3"},
		{"-9999", 2, "-1e+4"},
		{"179769313486231590772930519078902473361797697894230657273430081157732675805505620686985379449212982959585501387537164015710139858647833778606925583497541085196591615128057575940752635007475935288710823649949940771895617054361149474865046711015101563940680527540071584560878577663743040086340742855278549092581", 7, "1.797693e+308"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SciNotation(bi(c.n), c.digits), "%s@%d", c.n, c.digits)
	}
}

func TestPrintFactors(t *testing.T) {
	var buf bytes.Buffer
	PrintFactors(&buf, sampleJobs()[0], PrintOptions{NoColor: true})
	assert.Equal(t, "✅ Factors of n:\np =\n59\n\nq =\n101\n\n", buf.String())

	buf.Reset()
	PrintFactors(&buf, sampleJobs()[3], PrintOptions{NoColor: true, Duration: 2 * time.Second})
	out := buf.String()
	assert.Contains(t, out, "resume with --iter 2000001")
	assert.Contains(t, out, "Iterations: 2,000,001")
	assert.Contains(t, out, "Duration: 2.000s")
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sampleJobs(), PrintOptions{NoColor: true, Threads: 4})
	out := buf.String()
	assert.Contains(t, out, "[0] found  n=5959  p=59  q=101  iter=3")
	assert.Contains(t, out, "[1] trivial  n=101  iter=41")
	assert.Contains(t, out, "Jobs: 4 (found: 1, trivial: 1, exhausted: 1, timeout: 1, canceled: 0)")
	assert.Contains(t, out, "Threads: 4")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	PrintText(&buf, nil, PrintOptions{})
	assert.Contains(t, buf.String(), "No moduli given")
}

func TestPrintText_Color(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sampleJobs()[:1], PrintOptions{})
	assert.Contains(t, buf.String(), "\x1b[32mfound\x1b[0m")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, sampleJobs(), PrintOptions{NoColor: true, Digits: 3})
	out := buf.String()
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "5.95e+3")
	assert.Contains(t, out, "2,000,001")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "Jobs: 4")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, sampleJobs(), false))

	var recs []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &recs))
	require.Len(t, recs, 4)
	assert.Equal(t, "5959", recs[0].Modulus)
	assert.Equal(t, "59", recs[0].P)
	assert.Equal(t, "101", recs[0].Q)
	assert.Equal(t, 1.0, recs[0].ElapsedMS)
	assert.Equal(t, "2761929023323646159", recs[3].Modulus)
	assert.Empty(t, recs[3].P)
	assert.NotContains(t, buf.String(), `"p": ""`)
}

func TestPrintJSON_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, sampleJobs()[:1], true))
	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "5959")
}

func TestPrintCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintCSV(&buf, sampleJobs()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "modulus", rows[0][1])
	assert.Equal(t, []string{"0", "5959", "found", "59", "101", "3", "1", "1.000"}, rows[1])
	assert.Equal(t, "trivial", rows[2][2])
}

func TestPrintTime(t *testing.T) {
	var buf bytes.Buffer
	PrintTime(&buf, 1500*time.Millisecond)
	assert.Equal(t, "1.500000\n", buf.String())
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := NewProgressWriter(&buf, 3)
	pw.Update(-1, fermat.Observation{Iteration: bi("1000001"), A: bi("100"), P: bi("5959"), Q: bi("12")})
	pw.Update(2, fermat.Observation{Iteration: bi("1"), A: bi("1"), P: bi("1"), Q: bi("1")})
	pw.Done()
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\rIteration: 1e+6 p = 5.95e+3 q = 12"))
	assert.Contains(t, out, "\r[2] Iteration: 1 p = 1 q = 1")
	assert.True(t, strings.HasSuffix(out, "\n"))

	buf.Reset()
	pw.Done()
	assert.Empty(t, buf.String())
}

func TestExitCode(t *testing.T) {
	found := types.JobResult{Outcome: types.OutcomeFound}
	timeout := types.JobResult{Outcome: types.OutcomeTimeout}
	cases := []struct {
		name string
		jobs []types.JobResult
		want int
	}{
		{"empty", nil, ExitOK},
		{"all found", []types.JobResult{found, found}, ExitOK},
		{"timeout only", []types.JobResult{found, timeout}, ExitTimeout},
		{"trivial wins over timeout", []types.JobResult{timeout, {Outcome: types.OutcomeTrivial}}, ExitNotFound},
		{"exhausted", []types.JobResult{{Outcome: types.OutcomeExhausted}}, ExitNotFound},
		{"canceled", []types.JobResult{{Outcome: types.OutcomeCanceled}}, ExitNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ExitCode(c.jobs))
		})
	}
}

func TestPrintHistory(t *testing.T) {
	recs := []audit.RunRecord{{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RunID:     "0123456789abcdef",
		Command:   "batch",
		Jobs:      3,
		Outcomes:  map[string]int{"found": 2, "trivial": 1},
		Duration:  "1.5s",
	}}
	var buf bytes.Buffer
	PrintHistory(&buf, recs)
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "found=2 trivial=1")
	assert.Contains(t, out, "batch")

	buf.Reset()
	PrintHistory(&buf, nil)
	assert.Equal(t, "No runs recorded\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintHistoryJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
