package display

import (
	"fmt"
)

var byteUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatBytes returns a human-readable binary size ("512 B", "1.5 KiB", "12.3 MiB").
// Anything past TiB stays in TiB.
func FormatBytes(bytes int64) string {
	if bytes < 1024 && bytes > -1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	v := float64(bytes) / 1024
	i := 0
	for (v >= 1024 || v <= -1024) && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[i])
}

// FormatBytesWithSign renders a signed delta. Positive values, such as
// RunStats.SpaceSaved when outputs shrank, print as "+ 1.2 MiB"; negative
// values print as "- 1.2 MiB".
func FormatBytesWithSign(bytes int64) string {
	switch {
	case bytes > 0:
		return "+ " + FormatBytes(bytes)
	case bytes < 0:
		return "- " + FormatBytes(-bytes)
	}
	return FormatBytes(0)
}

// FormatKB returns a size in KiB with one decimal, the unit the byte budget
// is configured in.
func FormatKB(bytes int64) string {
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}
