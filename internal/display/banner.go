package display

import (
	"fmt"
	"io"
	"strings"
)

const (
	magenta = "\033[1;95m"
	reset   = "\033[0m"
	rule    = 70
)

// PrintBanner prints the ASCII art banner; uses Magenta if color is set.
func PrintBanner(w io.Writer, color bool) {
	if color {
		fmt.Fprint(w, magenta)
	}
	fmt.Fprint(w, `              _           _
__      _____| |__  _ __ | |_ __ ___  _ __
\ \ /\ / / _ \ '_ \| '_ \| __| '__/ _ \| '_ \
 \ V  V /  __/ |_) | |_) | |_| | | (_) | |_) |
  \_/\_/ \___|_.__/| .__/ \__|_|  \___/| .__/
                   |_|                 |_|
`)
	if color {
		fmt.Fprint(w, reset)
	}
}

// Welcome describes the running service for the startup message.
type Welcome struct {
	Version      string
	SourceDir    string
	ResultDir    string
	FailedDir    string
	TodayFolder  string
	BudgetBytes  int64
	PollInterval string
	Once         bool
	QuitKey      bool // The 'q' key is being watched.
}

// PrintWelcome prints the folders, today's output subfolder and the
// compression target.
func PrintWelcome(w io.Writer, info Welcome) {
	line := strings.Repeat("=", rule)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  webpdrop %s: image to WebP drop-folder converter\n", info.Version)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  Source folder    : %s\n", info.SourceDir)
	fmt.Fprintf(w, "  Result folder    : %s\n", info.ResultDir)
	fmt.Fprintf(w, "  Failed folder    : %s\n", info.FailedDir)
	fmt.Fprintf(w, "  Output subfolder : %s\n", info.TodayFolder)
	fmt.Fprintf(w, "  Target size      : <= %s per image, EXIF preserved\n", FormatBytes(info.BudgetBytes))
	fmt.Fprintln(w, line)
	switch {
	case info.Once:
		fmt.Fprintln(w, "  Processing the current backlog once.")
	case info.QuitKey:
		fmt.Fprintf(w, "  Monitoring every %s. Type 'q' and Enter (or Ctrl+C) to stop.\n", info.PollInterval)
	default:
		fmt.Fprintf(w, "  Monitoring every %s. Press Ctrl+C to stop.\n", info.PollInterval)
	}
	fmt.Fprintln(w, line)
}
