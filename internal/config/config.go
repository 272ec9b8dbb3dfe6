// Package config holds runtime configuration: defaults, flag and environment
// parsing, and validation. All defaults match the original drop-folder
// converter so an unconfigured run behaves the same way.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Size tier defaults in MiB. Sources above TierLowMB are resized up front.
const (
	DefaultTierLowMB  = 10.0
	DefaultTierMidMB  = 50.0
	DefaultTierHighMB = 100.0
)

// DefaultBudgetKB is the output size budget in KiB.
const DefaultBudgetKB = 150

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then overlaid by [Load] before being passed (by pointer) to packages that
// need it. Nothing mutates it after startup.
//
// The mapstructure tags double as flag names and, upper-cased with a
// WEBPDROP_ prefix, as environment variable names.
type Config struct {
	// Folders.
	SourceDir string `mapstructure:"source"` // Default: "source".
	ResultDir string `mapstructure:"result"` // Default: "result".
	FailedDir string `mapstructure:"failed"` // Default: "failedConvert".

	// Loop behavior.
	PollInterval time.Duration `mapstructure:"interval"` // Default: 2s.
	Once         bool          `mapstructure:"once"`     // Process the backlog once and exit.
	NoKeys       bool          `mapstructure:"no-keys"`  // Disable the 'q' quit key.

	// Compression targets.
	BudgetKB   int     `mapstructure:"budget-kb"`    // Default: 150.
	TierLowMB  float64 `mapstructure:"tier-low-mb"`  // Default: 10.
	TierMidMB  float64 `mapstructure:"tier-mid-mb"`  // Default: 50.
	TierHighMB float64 `mapstructure:"tier-high-mb"` // Default: 100.

	// Display and logging.
	Verbose     bool      `mapstructure:"verbose"`
	ColorMode   ColorMode `mapstructure:"color"`        // Default: "auto".
	LogFile     string    `mapstructure:"log"`          // Optional log file path.
	MetricsFile string    `mapstructure:"metrics-file"` // Optional Prometheus textfile.
	CheckOnly   bool      `mapstructure:"check"`        // Run --check diagnostics and exit.

	// ConfigFile is read by viper before flags are applied.
	ConfigFile string `mapstructure:"config"`
}

// DefaultConfig returns a Config with the original tool's defaults.
func DefaultConfig() Config {
	return Config{
		SourceDir:    "source",
		ResultDir:    "result",
		FailedDir:    "failedConvert",
		PollInterval: 2 * time.Second,
		BudgetKB:     DefaultBudgetKB,
		TierLowMB:    DefaultTierLowMB,
		TierMidMB:    DefaultTierMidMB,
		TierHighMB:   DefaultTierHighMB,
		ColorMode:    ColorAuto,
	}
}

// BudgetBytes returns the output size budget in bytes.
func (c *Config) BudgetBytes() int64 {
	return int64(c.BudgetKB) * 1024
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, numeric ranges and that all three folders
// are set. Folder layout rules are checked separately by [Config.ValidatePaths]
// once the paths have been resolved.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.BudgetKB <= 0 {
		return fmt.Errorf("budget must be a positive number of KB (got %d)", c.BudgetKB)
	}
	if c.TierLowMB <= 0 || c.TierLowMB >= c.TierMidMB || c.TierMidMB >= c.TierHighMB {
		return fmt.Errorf("size tiers must be positive and ascending (got %g/%g/%g MB)",
			c.TierLowMB, c.TierMidMB, c.TierHighMB)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive (got %s)", c.PollInterval)
	}

	if c.SourceDir == "" || c.ResultDir == "" || c.FailedDir == "" {
		return errors.New("source, result and failed folders must all be set")
	}
	return nil
}

// ValidatePaths ensures neither the result root nor the quarantine folder is
// the source folder itself. WebP is an accepted input extension, so writing
// outputs or failures back into the watched folder would feed them into the
// next scan. All arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, resultAbs, failedAbs string) error {
	if resultAbs == sourceAbs {
		return errors.New("result folder must not be the source folder")
	}
	if failedAbs == sourceAbs {
		return errors.New("failed folder must not be the source folder")
	}
	// Dated subfolders live one level below the result root.
	if filepath.Dir(sourceAbs) == resultAbs && isDateFolder(filepath.Base(sourceAbs)) {
		return errors.New("source folder must not be a dated result subfolder")
	}
	return nil
}

func isDateFolder(name string) bool {
	if len(name) != 8 {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
