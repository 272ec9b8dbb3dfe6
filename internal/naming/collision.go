package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// QuarantinePathFor returns the destination for sourceName in the failed
// folder. A free name is used as-is. When it is taken, the current
// timestamp is appended to the stem; if that is also taken (two failures of
// the same name within one second) a counter follows the timestamp.
//
//	bad.jpg -> bad.jpg -> bad_20261016_142501.jpg -> bad_20261016_142501_2.jpg
func (r *Router) QuarantinePathFor(sourceName string) string {
	requested := filepath.Join(r.FailedDir, sourceName)
	if !exists(requested) {
		return requested
	}

	ext := filepath.Ext(sourceName)
	stem := strings.TrimSuffix(sourceName, ext)
	stamped := fmt.Sprintf("%s_%s", stem, r.Now().Format(StampLayout))

	candidate := filepath.Join(r.FailedDir, stamped+ext)
	for counter := 2; exists(candidate); counter++ {
		candidate = filepath.Join(r.FailedDir, fmt.Sprintf("%s_%d%s", stamped, counter, ext))
	}
	return candidate
}

// Quarantine moves sourcePath into the failed folder and returns the final
// path. On error the source is left where it was.
func (r *Router) Quarantine(sourcePath string) (string, error) {
	if err := os.MkdirAll(r.FailedDir, 0o755); err != nil {
		return "", fmt.Errorf("create failed folder: %w", err)
	}
	dest := r.QuarantinePathFor(filepath.Base(sourcePath))
	if err := MoveFile(sourcePath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
