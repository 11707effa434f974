package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LocalNames are the files LoadLocal looks for, in order.
var LocalNames = []string{".diffsquare.yml", ".diffsquare.yaml", "diffsquare.yml", "diffsquare.yaml"}

// ErrNotFound is returned when no config file exists at the searched location.
var ErrNotFound = errors.New("no config file")

// FileConfig is the on-disk YAML configuration shape.
type FileConfig struct {
	Threads   *int    `yaml:"threads,omitempty" validate:"omitempty,gte=0,lte=4096"`
	Timeout   *string `yaml:"timeout,omitempty" validate:"omitempty,duration"`
	Interval  *uint64 `yaml:"interval,omitempty" validate:"omitempty,gte=1"`
	Precision *int    `yaml:"precision,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Quiet     *bool   `yaml:"quiet,omitempty"`
	Format    *string `yaml:"format,omitempty" validate:"omitempty,oneof=text table json csv time"`
	NoColor   *bool   `yaml:"no_color,omitempty"`

	LogLevel  *string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat *string `yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile *string `yaml:"metrics_file,omitempty"`
	// Audit toggles the run history log (default on).
	Audit *bool `yaml:"audit,omitempty"`
	// CacheDir overrides where checkpoints and history are stored.
	CacheDir    *string `yaml:"cache_dir,omitempty"`
	UpdateCheck *bool   `yaml:"update_check,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
	return v
}

// Validate reports the first invalid field.
func (fc FileConfig) Validate() error {
	if err := validate.Struct(fc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config field %s: failed %q check", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout; unset means zero.
func (fc FileConfig) TimeoutDuration() (time.Duration, error) {
	if fc.Timeout == nil {
		return 0, nil
	}
	return time.ParseDuration(*fc.Timeout)
}

// LoadFile reads and validates a YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches dir for one of LocalNames.
func LoadLocal(dir string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns $XDG_CONFIG_HOME/diffsquare/config.yml, falling back to
// ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "diffsquare", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, ErrNotFound
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Merge returns hi with every unset field filled from lo.
func Merge(hi, lo FileConfig) FileConfig {
	out := hi
	if out.Threads == nil {
		out.Threads = lo.Threads
	}
	if out.Timeout == nil {
		out.Timeout = lo.Timeout
	}
	if out.Interval == nil {
		out.Interval = lo.Interval
	}
	if out.Precision == nil {
		out.Precision = lo.Precision
	}
	if out.Quiet == nil {
		out.Quiet = lo.Quiet
	}
	if out.Format == nil {
		out.Format = lo.Format
	}
	if out.NoColor == nil {
		out.NoColor = lo.NoColor
	}
	if out.LogLevel == nil {
		out.LogLevel = lo.LogLevel
	}
	if out.LogFormat == nil {
		out.LogFormat = lo.LogFormat
	}
	if out.MetricsFile == nil {
		out.MetricsFile = lo.MetricsFile
	}
	if out.Audit == nil {
		out.Audit = lo.Audit
	}
	if out.CacheDir == nil {
		out.CacheDir = lo.CacheDir
	}
	if out.UpdateCheck == nil {
		out.UpdateCheck = lo.UpdateCheck
	}
	return out
}

// Marshal renders cfg as YAML, omitting unset fields.
func Marshal(cfg FileConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Template is written by "config init".
const Template = `# diffsquare configuration
# threads: 0          # concurrent jobs for batch runs (0 = number of CPUs)
# timeout: 30s        # per-job wall-clock limit (empty = none)
# interval: 1000000   # iterations between progress reports
precision: 6          # digits after the point in scientific notation
# quiet: false
# format: text        # text | table | json | csv | time
# no_color: false
# log_level: warn     # debug | info | warn | error
# log_format: text    # text | json
# metrics_file: ""    # write Prometheus textfile metrics after each run
# audit: true         # keep a run history
# cache_dir: ""       # override where checkpoints and history live
# update_check: true
`
