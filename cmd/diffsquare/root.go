package diffsquare

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/logger"
	"github.com/diffsquare/diffsquare/internal/report"
)

var (
	flagJSON          bool
	flagCSV           bool
	flagTable         bool
	flagTime          bool
	flagNoColor       bool
	flagLogLevel      string
	flagLogFormat     string
	flagMetricsFile   string
	flagCacheDir      string
	flagNoAudit       bool
	flagNoUpdateCheck bool

	version = "0.2.0"
)

// rootCmd is the base Cobra command for the diffsquare CLI.
var rootCmd = &cobra.Command{
	Use:   "diffsquare",
	Short: "Factor integers with Fermat's difference of squares",
	Long: "diffsquare searches for a and b with a² - b² = n, which gives n = (a-b)(a+b). " +
		"It is fast when the two factors of n are close together.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// exitError ends the process with a status code and no message. Commands
// return it when they ran correctly but the outcome warrants a non-zero exit.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the diffsquare CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(report.ExitError)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "emit JSON")
	pf.BoolVar(&flagCSV, "csv", false, "emit CSV")
	pf.BoolVar(&flagTable, "table", false, "emit an aligned table")
	pf.BoolVar(&flagTime, "time", false, "print only the elapsed seconds")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	pf.StringVar(&flagLogFormat, "log-format", "", "log format: text|json (default text)")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus textfile metrics here after the run")
	pf.StringVar(&flagCacheDir, "cache-dir", "", "directory for checkpoints and run history")
	pf.BoolVar(&flagNoAudit, "no-audit", false, "do not record this run in the history")
	pf.BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.MarkFlagsMutuallyExclusive("json", "csv", "table", "time")
}

// setup resolves settings and configures logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	s, warnings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: s.logLevel, Format: s.logFormat, Output: "stderr"}); err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("ignoring config file", "error", w)
	}
	current = s
	return nil
}
