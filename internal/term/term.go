// Package term provides color-mode resolution, terminal detection and the
// interactive quit-key watcher.
package term

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/backmassage/webpdrop/internal/config"
)

// ColorEnabled resolves the configured mode against TTY detection and the
// NO_COLOR env var (https://no-color.org).
func ColorEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
