package config

// This file implements flag parsing, environment/config-file binding and help text.
// Precedence is flag > WEBPDROP_* environment > config file > DefaultConfig.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended (with an underscore) to every environment variable.
const EnvPrefix = "WEBPDROP"

// Sentinel errors returned by Load for flags that end the run early.
var (
	ErrHelp    = errors.New("help requested")
	ErrVersion = errors.New("version requested")
)

// Load builds a Config from DefaultConfig, an optional config file, the
// WEBPDROP_* environment and args (os.Args[1:]). Help and version requests
// print to out and return ErrHelp / ErrVersion.
func Load(args []string, version string, out io.Writer) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("webpdrop", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	var showHelp, showVersion bool
	defineFolderFlags(fs, &cfg)
	defineLoopFlags(fs, &cfg)
	defineCompressionFlags(fs, &cfg)
	defineDisplayFlags(fs, &cfg)
	fs.BoolVarP(&showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if showHelp {
		printUsage(out, fs, version)
		return cfg, ErrHelp
	}
	if showVersion {
		fmt.Fprintln(out, "webpdrop v"+version)
		return cfg, ErrVersion
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return cfg, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.SourceDir = NormalizeDirArg(cfg.SourceDir)
	cfg.ResultDir = NormalizeDirArg(cfg.ResultDir)
	cfg.FailedDir = NormalizeDirArg(cfg.FailedDir)
	cfg.ColorMode = ColorMode(strings.ToLower(string(cfg.ColorMode)))
	return cfg, nil
}

// defineFolderFlags registers --source, --result, --failed.
func defineFolderFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SourceDir, "source", cfg.SourceDir, "Input drop folder (scanned non-recursively)")
	fs.StringVar(&cfg.ResultDir, "result", cfg.ResultDir, "Output root; files land in <result>/MMDDYYYY")
	fs.StringVar(&cfg.FailedDir, "failed", cfg.FailedDir, "Quarantine folder for failed conversions")
}

// defineLoopFlags registers --interval, --once, --no-keys.
func defineLoopFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.DurationVar(&cfg.PollInterval, "interval", cfg.PollInterval, "Wait between folder scans")
	fs.BoolVar(&cfg.Once, "once", false, "Process the current backlog once and exit")
	fs.BoolVar(&cfg.NoKeys, "no-keys", false, "Do not listen for the 'q' quit key on stdin")
}

// defineCompressionFlags registers the budget and size tier thresholds.
func defineCompressionFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.BudgetKB, "budget-kb", cfg.BudgetKB, "Maximum output size in KB")
	fs.Float64Var(&cfg.TierLowMB, "tier-low-mb", cfg.TierLowMB, "Sources above this size (MB) start at quality 65 and are resized")
	fs.Float64Var(&cfg.TierMidMB, "tier-mid-mb", cfg.TierMidMB, "Sources above this size (MB) start at quality 55")
	fs.Float64Var(&cfg.TierHighMB, "tier-high-mb", cfg.TierHighMB, "Sources above this size (MB) start at quality 45")
}

// defineDisplayFlags registers color, verbose, log, metrics, config and check.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar((*string)(&cfg.ColorMode), "color", string(cfg.ColorMode), "Colored logs: auto | always | never")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus text metrics after each batch")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Read settings from a YAML, TOML, JSON or .env file")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(out io.Writer, fs *pflag.FlagSet, version string) {
	fmt.Fprintln(out, "webpdrop v"+version+" - drop-folder WebP converter with a size budget")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  webpdrop [OPTIONS]")
	fmt.Fprintln(out)
	fmt.Fprint(out, fs.FlagUsages())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Every option can also be set as %s_<OPTION>, e.g. %s_BUDGET_KB=200.\n", EnvPrefix, EnvPrefix)
}
