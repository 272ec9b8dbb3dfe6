package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported image file extensions (lowercase, with leading dot). Some have
// no registered decoder (JPEG 2000, ICO, PNM); those fail at decode and
// are quarantined like any other unreadable file.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".bmp":  true,
	".dib":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
	".ico":  true,
	".webp": true,
	".ppm":  true,
	".pgm":  true,
	".pbm":  true,
	".pnm":  true,
	".jp2":  true,
	".jpx":  true,
	".j2k":  true,
}

// IsImageName reports whether name has a supported image extension.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover lists regular files directly inside sourceDir whose extension
// is supported, sorted lexicographically for deterministic processing
// order. Subdirectories are not descended into.
func Discover(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsImageName(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(sourceDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
