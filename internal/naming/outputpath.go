package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Layouts for the dated output folder and the quarantine collision suffix.
const (
	DateFolderLayout = "01022006"        // MMDDYYYY
	StampLayout      = "20060102_150405" // YYYYMMDD_HHMMSS
)

// Router computes output and quarantine locations. It holds no per-file
// state; the clock is injectable for tests.
type Router struct {
	ResultDir string
	FailedDir string
	Now       func() time.Time
}

// NewRouter returns a Router using the wall clock.
func NewRouter(resultDir, failedDir string) *Router {
	return &Router{ResultDir: resultDir, FailedDir: failedDir, Now: time.Now}
}

// DateFolderName returns the MMDDYYYY folder name for t.
func DateFolderName(t time.Time) string {
	return t.Format(DateFolderLayout)
}

// OutputFolderForToday returns <result>/<MMDDYYYY>, creating it if absent.
// Safe to call once per file: MkdirAll is a no-op for an existing folder.
func (r *Router) OutputFolderForToday() (string, error) {
	dir := filepath.Join(r.ResultDir, DateFolderName(r.Now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder %s: %w", dir, err)
	}
	return dir, nil
}

// OutputPath returns the output file path in dir: the source stem with ext.
//
//	photo.JPG -> <dir>/photo.webp
func OutputPath(dir, sourceName, ext string) string {
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return filepath.Join(dir, stem+ext)
}
