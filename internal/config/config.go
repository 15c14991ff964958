package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/partition"
	"github.com/agbru/rangesum/internal/worker"
)

// EnvPrefix is prepended to every environment variable the configuration reads.
const EnvPrefix = "RANGESUM_"

const (
	// DefaultDataSize is the size of the summed range [0, DefaultDataSize).
	DefaultDataSize uint64 = 1_000_000_000
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 10 * time.Minute
	// DefaultEnvFile is loaded when present and no -env-file is given.
	DefaultEnvFile = ".env"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Workers is the resolved worker count; always positive after ParseConfig.
	Workers int
	// WorkersArg is the raw positional worker-count argument, if any.
	WorkersArg string
	// DataSize is the number of elements summed.
	DataSize uint64
	// Remainder selects the partition.Policy by name ("drop" or "absorb").
	Remainder string
	// Timeout bounds the run.
	Timeout time.Duration
	// Quiet prints only the mean.
	Quiet bool
	// Details appends the per-worker table and diagnostics.
	Details bool
	// TUI runs the interactive dashboard.
	TUI bool
	// NoColor disables ANSI colors.
	NoColor bool
	// OutputFile, when set, also receives the report.
	OutputFile string
	// MetricsFile, when set, receives Prometheus text-format metrics.
	MetricsFile string
	// EnvFile is the dotenv file loaded before environment overrides.
	EnvFile string
	// LogLevel is the zerolog level name.
	LogLevel string
	// Version requests the version banner.
	Version bool
}

// Policy returns the remainder policy. Validate must have succeeded.
func (c AppConfig) Policy() partition.Policy {
	p, _ := partition.ParsePolicy(c.Remainder)
	return p
}

// Validate checks the configuration for values that cannot be run.
// Worker counts are never invalid: ParseConfig already fell back to the
// default parallelism.
func (c AppConfig) Validate() error {
	if c.DataSize == 0 {
		return apperrors.NewConfigError("-size must be at least 1")
	}
	if c.DataSize > worker.MaxDataSize {
		return apperrors.NewConfigError("-size %d is too large: the sum would overflow uint64 (max %d)", c.DataSize, worker.MaxDataSize)
	}
	if _, err := partition.ParsePolicy(c.Remainder); err != nil {
		return apperrors.NewConfigError("invalid -remainder: %v", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid -log-level %q", c.LogLevel)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("-quiet and -tui cannot be combined")
	}
	return nil
}

// ParseConfig parses command-line arguments into an AppConfig.
//
// Resolution order per setting: command-line flag, then RANGESUM_* environment
// variable (a dotenv file may populate the environment), then default. The
// optional first positional argument is the worker count and may appear
// before or after the flags; a signed number such as -1 is taken as that
// positional rather than as a flag. When it is missing, non-numeric or not
// positive the -workers value is used, and when that is
// not positive either the host's available parallelism is used.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: The arguments without the program name.
//   - errWriter: Where usage and parse errors are written.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp for -h, a ConfigError otherwise.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	fs.IntVar(&config.Workers, "workers", 0, "Number of workers (default: available parallelism).")
	fs.IntVar(&config.Workers, "w", 0, "Shorthand for -workers.")
	fs.Uint64Var(&config.DataSize, "size", DefaultDataSize, "Number of elements to sum, i.e. the range [0, size).")
	fs.StringVar(&config.Remainder, "remainder", "drop", "Remainder policy when size is not divisible by workers: 'drop' or 'absorb'.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g., 30s, 1m).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the mean.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Details, "details", false, "Show per-worker results and run diagnostics.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for -details.")
	fs.BoolVar(&config.TUI, "tui", false, "Run the interactive dashboard.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for -output.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus text-format metrics for the run to this file.")
	fs.StringVar(&config.EnvFile, "env-file", "", "Dotenv file to load before reading RANGESUM_* variables (default: .env if present).")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error.")
	fs.BoolVar(&config.Version, "version", false, "Print the version and exit.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [workers]\n\n", programName)
		fmt.Fprintf(errWriter, "Sums i+1 over [0, size) across parallel workers and reports the mean.\n\n")
		fmt.Fprintf(errWriter, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEvery flag can also be set through a %s<NAME> environment variable,\n", EnvPrefix)
		fmt.Fprintf(errWriter, "e.g. %sWORKERS=8 or %sREMAINDER=absorb.\n", EnvPrefix, EnvPrefix)
	}

	if err := fs.Parse(interleaveArgs(fs, args)); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	if err := LoadEnvFile(config.EnvFile); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)

	if fs.NArg() > 0 {
		config.WorkersArg = fs.Arg(0)
		if n := ParseWorkerCount(config.WorkersArg); n > 0 {
			config.Workers = n
		}
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers()
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return config, nil
}

// interleaveArgs moves flags ahead of positional arguments so that flags
// given after the worker count are still parsed, and passes numeric
// arguments like "-1" through as positionals. Values of non-boolean flags
// are kept with their flag. Everything after "--" is positional.
func interleaveArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positionals = append(positionals, args[i+1:]...)
			i = len(args)
		case len(arg) < 2 || arg[0] != '-' || looksNumeric(arg):
			positionals = append(positionals, arg)
		default:
			flags = append(flags, arg)
			if takesValue(fs, arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	return append(append(flags, "--"), positionals...)
}

// looksNumeric reports whether arg is an optionally signed number.
func looksNumeric(arg string) bool {
	if arg[0] == '-' || arg[0] == '+' {
		arg = arg[1:]
	}
	return arg != "" && arg[0] >= '0' && arg[0] <= '9'
}

// takesValue reports whether arg names a defined non-boolean flag without
// an inline "=value".
func takesValue(fs *flag.FlagSet, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	if strings.Contains(name, "=") {
		return false
	}
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}
