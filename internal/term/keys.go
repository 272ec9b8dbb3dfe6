package term

import (
	"bufio"
	"io"
	"strings"
)

// WatchQuitKey reads r in a background goroutine and calls onQuit once when
// a line starting with one of keys (case-insensitive) is entered. The
// terminal stays in cooked mode so log output keeps its line endings; the
// key takes effect after Enter. Reading stops at EOF or after onQuit fires.
func WatchQuitKey(r io.Reader, keys string, onQuit func()) {
	keys = strings.ToLower(keys)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.ToLower(strings.TrimSpace(sc.Text()))
			if line == "" {
				continue
			}
			if strings.ContainsRune(keys, rune(line[0])) {
				onQuit()
				return
			}
		}
	}()
}
