package diffsquare

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffsquare/diffsquare/internal/config"
	"github.com/diffsquare/diffsquare/internal/report"
	"github.com/diffsquare/diffsquare/internal/types"
)

func ptr[T any](v T) *T { return &v }

func resetFlags(t *testing.T) {
	t.Helper()
	flagThreads, flagTimeout, flagInterval, flagPrecision = 0, 0, 0, -1
	flagQuiet, flagResume = false, false
	flagJSON, flagCSV, flagTable, flagTime = false, false, false, false
	flagNoColor, flagNoAudit, flagNoUpdateCheck = false, false, false
	flagLogLevel, flagLogFormat, flagMetricsFile, flagCacheDir = "", "", "", ""
}

func TestPickHelpers(t *testing.T) {
	assert.Equal(t, "cli", pick("cli", ptr("local"), ptr("global")))
	assert.Equal(t, "local", pick("", ptr("local"), ptr("global")))
	assert.Equal(t, "global", pick("", ptr(""), ptr("global")))
	assert.Equal(t, "", pick("", nil, nil))

	assert.Equal(t, 8, pick(8, ptr(4), ptr(2)))
	assert.Equal(t, 4, pick(0, ptr(4), ptr(2)))
	assert.Equal(t, 2, pick(0, nil, ptr(2)))

	assert.Equal(t, uint64(5), pick(0, nil, ptr(uint64(5))))

	assert.True(t, pickBool(true, ptr(false), nil))
	assert.False(t, pickBool(false, ptr(false), ptr(true)))
	assert.True(t, pickBool(false, nil, ptr(true)))
}

func TestLoadSettings_Precedence(t *testing.T) {
	resetFlags(t)
	global := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", global)
	require.NoError(t, os.MkdirAll(filepath.Join(global, "diffsquare"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(global, "diffsquare", "config.yml"),
		[]byte("threads: 2\ninterval: 50\ntimeout: 1m\nlog_level: debug\n"), 0o644))

	local := t.TempDir()
	t.Chdir(local)
	require.NoError(t, os.WriteFile(filepath.Join(local, ".diffsquare.yml"),
		[]byte("threads: 4\nprecision: 3\nformat: table\n"), 0o644))

	flagInterval = 10
	s, warnings, err := loadSettings(&cobra.Command{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, s.threads)
	assert.Equal(t, uint64(10), s.interval)
	assert.Equal(t, time.Minute, s.timeout)
	assert.Equal(t, 3, s.precision)
	assert.Equal(t, 4, s.digits())
	assert.Equal(t, report.FormatTable, s.format)
	assert.Equal(t, "debug", s.logLevel)
	assert.True(t, s.audit)
	assert.True(t, s.updateCheck)

	flagJSON = true
	flagNoAudit = true
	s, _, err = loadSettings(&cobra.Command{})
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, s.format)
	assert.False(t, s.audit)
}

func TestLoadSettings_PrecisionFlag(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := &cobra.Command{}
	cmd.Flags().IntVarP(&flagPrecision, "prec", "p", -1, "")
	s, _, err := loadSettings(cmd)
	require.NoError(t, err)
	assert.Equal(t, -1, s.precision)
	assert.Equal(t, defaultPrecision+1, s.digits())

	require.NoError(t, cmd.Flags().Set("prec", "0"))
	s, _, err = loadSettings(cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, s.precision)
	assert.Equal(t, 1, s.digits())
}

func TestLoadSettings_InvalidFileIsWarning(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	local := t.TempDir()
	t.Chdir(local)
	require.NoError(t, os.WriteFile(filepath.Join(local, ".diffsquare.yml"), []byte("format: xml\n"), 0o644))

	s, warnings, err := loadSettings(&cobra.Command{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, report.FormatText, s.format)
}

func TestFileConfig_RoundTrip(t *testing.T) {
	s := settings{threads: 3, timeout: 90 * time.Second, precision: 2, format: report.FormatCSV, audit: true}
	b, err := config.Marshal(s.fileConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	fc, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, *fc.Threads)
	assert.Equal(t, "1m30s", *fc.Timeout)
	assert.Equal(t, 2, *fc.Precision)
	assert.Equal(t, "csv", *fc.Format)
	assert.Nil(t, fc.Interval)
}

func TestRunConfigInit(t *testing.T) {
	out := filepath.Join(t.TempDir(), ".diffsquare.yml")
	cfgOutput, cfgForce = out, false
	require.NoError(t, runConfigInit(nil, nil))
	assert.Error(t, runConfigInit(nil, nil))

	fc, err := config.LoadFile(out)
	require.NoError(t, err)
	require.NotNil(t, fc.Precision)
	assert.Equal(t, 6, *fc.Precision)

	cfgForce = true
	assert.NoError(t, runConfigInit(nil, nil))
}

func TestExitFor(t *testing.T) {
	found := types.JobResult{Outcome: types.OutcomeFound}
	timeout := types.JobResult{Outcome: types.OutcomeTimeout}
	trivial := types.JobResult{Outcome: types.OutcomeTrivial}

	assert.NoError(t, exitFor([]types.JobResult{found}))

	err := exitFor([]types.JobResult{found, timeout})
	var ee exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, report.ExitTimeout, ee.code)

	require.ErrorAs(t, exitFor([]types.JobResult{timeout, trivial}), &ee)
	assert.Equal(t, report.ExitNotFound, ee.code)
}

func TestRunnerRecord(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	r := newRunner(settings{cacheDir: dir, precision: -1, audit: true})
	n := big.NewInt(5959)

	r.record(types.JobResult{Modulus: n, Outcome: types.OutcomeTimeout, Iteration: big.NewInt(1000)})
	assert.True(t, r.dirty)
	assert.Equal(t, "1000", r.db.Lookup(n).String())

	cfg := r.engineConfig([]*big.Int{n}, true)
	require.NotNil(t, cfg.Checkpoint)
	assert.Equal(t, "1000", cfg.Checkpoint(big.NewInt(5959)).String())

	r.record(types.JobResult{Modulus: n, Outcome: types.OutcomeFound, P: big.NewInt(59), Q: big.NewInt(101)})
	assert.Nil(t, r.db.Lookup(n))

	r.finish("batch", nil, 1, time.Millisecond)
	_, err := os.Stat(filepath.Join(dir, "history.jsonl"))
	assert.NoError(t, err)
}

func TestSortJobs(t *testing.T) {
	jobs := []types.JobResult{{Index: 2}, {Index: 0}, {Index: 1}}
	sortJobs(jobs)
	assert.Equal(t, 0, jobs[0].Index)
	assert.Equal(t, 2, jobs[2].Index)
}

func TestWriteCompletion(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"completion"})
	require.NoError(t, err)
	for _, shell := range cmd.ValidArgs {
		var buf bytes.Buffer
		require.NoError(t, writeCompletion(&buf, shell), shell)
		assert.NotEmpty(t, buf.String(), shell)
		assert.Contains(t, cmd.Example, "completion "+shell)
	}
	assert.Error(t, writeCompletion(&bytes.Buffer{}, "tcsh"))
}
