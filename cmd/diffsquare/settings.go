package diffsquare

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/config"
	"github.com/diffsquare/diffsquare/internal/report"
)

// Flags shared by factor and batch. Only one command runs per process, so
// both bind the same variables.
var (
	flagThreads   int
	flagTimeout   time.Duration
	flagInterval  uint64
	flagPrecision int
	flagQuiet     bool
	flagResume    bool
)

// defaultPrecision is used when neither a flag, a config file, nor a prompt
// supplies one.
const defaultPrecision = 6

// settings is the effective configuration: CLI > local file > global file.
type settings struct {
	threads     int
	timeout     time.Duration
	interval    uint64
	precision   int // -1 when unset
	quiet       bool
	format      report.Format
	noColor     bool
	logLevel    string
	logFormat   string
	metricsFile string
	audit       bool
	cacheDir    string
	updateCheck bool
}

var current settings

func loadSettings(cmd *cobra.Command) (settings, []error, error) {
	var warnings []error
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	} else if !errors.Is(err, config.ErrNotFound) {
		warnings = append(warnings, err)
	}
	if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			lcfg = c
		} else if !errors.Is(err, config.ErrNotFound) {
			warnings = append(warnings, err)
		}
	}
	merged := config.Merge(lcfg, gcfg)

	s := settings{
		threads:     pick(flagThreads, lcfg.Threads, gcfg.Threads),
		interval:    pick(flagInterval, lcfg.Interval, gcfg.Interval),
		precision:   -1,
		quiet:       pickBool(flagQuiet, lcfg.Quiet, gcfg.Quiet),
		noColor:     pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
		logLevel:    pick(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel),
		logFormat:   pick(flagLogFormat, lcfg.LogFormat, gcfg.LogFormat),
		metricsFile: pick(flagMetricsFile, lcfg.MetricsFile, gcfg.MetricsFile),
		cacheDir:    pick(flagCacheDir, lcfg.CacheDir, gcfg.CacheDir),
		audit:       !flagNoAudit && (merged.Audit == nil || *merged.Audit),
		updateCheck: !flagNoUpdateCheck && (merged.UpdateCheck == nil || *merged.UpdateCheck),
	}

	s.timeout = flagTimeout
	if s.timeout == 0 {
		d, err := merged.TimeoutDuration()
		if err != nil {
			return s, nil, err
		}
		s.timeout = d
	}

	switch {
	case cmd.Flags().Changed("prec"):
		s.precision = flagPrecision
	case merged.Precision != nil:
		s.precision = *merged.Precision
	}

	switch {
	case flagJSON:
		s.format = report.FormatJSON
	case flagCSV:
		s.format = report.FormatCSV
	case flagTable:
		s.format = report.FormatTable
	case flagTime:
		s.format = report.FormatTime
	default:
		f, err := report.ParseFormat(pick("", lcfg.Format, gcfg.Format))
		if err != nil {
			return s, nil, err
		}
		s.format = f
	}
	return s, warnings, nil
}

// fileConfig renders s in the config file shape, for "config show".
func (s settings) fileConfig() config.FileConfig {
	format := string(s.format)
	timeout := s.timeout.String()
	fc := config.FileConfig{
		Threads:     &s.threads,
		Quiet:       &s.quiet,
		Format:      &format,
		NoColor:     &s.noColor,
		Audit:       &s.audit,
		UpdateCheck: &s.updateCheck,
	}
	if s.timeout > 0 {
		fc.Timeout = &timeout
	}
	if s.interval > 0 {
		fc.Interval = &s.interval
	}
	if s.precision >= 0 {
		fc.Precision = &s.precision
	}
	if s.logLevel != "" {
		fc.LogLevel = &s.logLevel
	}
	if s.logFormat != "" {
		fc.LogFormat = &s.logFormat
	}
	if s.metricsFile != "" {
		fc.MetricsFile = &s.metricsFile
	}
	if s.cacheDir != "" {
		fc.CacheDir = &s.cacheDir
	}
	return fc
}

// digits converts the user-facing precision (digits after the point) to
// significant digits.
func (s settings) digits() int {
	if s.precision < 0 {
		return defaultPrecision + 1
	}
	return s.precision + 1
}
