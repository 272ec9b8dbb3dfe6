// Package check provides the --check diagnostics: the three folders are
// creatable and writable, the WebP encoder works, and an EXIF block
// survives the write-then-reattach path used by the pipeline.
package check

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/webpdrop/internal/codec"
	"github.com/backmassage/webpdrop/internal/config"
	"github.com/backmassage/webpdrop/internal/metadata"
	"github.com/backmassage/webpdrop/internal/naming"
)

// ErrCheckFailed is returned by RunCheck when any check did not pass.
var ErrCheckFailed = errors.New("one or more checks failed")

// Logger is the minimal logging interface needed by RunCheck.
// A *zap.SugaredLogger satisfies it; tests use a recording mock.
type Logger interface {
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

// probeEXIF is a minimal little-endian TIFF block: IFD0 with a single
// Make tag reading "webpdrop".
var probeEXIF = []byte{
	'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00, // header, IFD0 at 8
	0x01, 0x00, // one entry
	0x0f, 0x01, 0x02, 0x00, 0x09, 0x00, 0x00, 0x00, 0x1a, 0x00, 0x00, 0x00, // Make, ASCII, 9 bytes at 26
	0x00, 0x00, 0x00, 0x00, // no next IFD
	'w', 'e', 'b', 'p', 'd', 'r', 'o', 'p', 0x00,
}

// RunCheck runs every diagnostic, logging each result, and returns
// ErrCheckFailed if any failed. It creates the configured folders.
func RunCheck(cfg *config.Config, log Logger) error {
	log.Infof("=== System Check ===")

	ok := true
	for _, dir := range []struct{ label, path string }{
		{"source", cfg.SourceDir},
		{"result", cfg.ResultDir},
		{"failed", cfg.FailedDir},
	} {
		if err := checkWritable(dir.path); err != nil {
			log.Errorf("%s folder %s: %v", dir.label, dir.path, err)
			ok = false
			continue
		}
		log.Infof("%s folder %s: writable", dir.label, dir.path)
	}

	data, err := checkEncoder()
	if err != nil {
		log.Errorf("WebP encoder: %v", err)
		return ErrCheckFailed
	}
	log.Infof("WebP encoder: ok (%d byte test image)", len(data))

	if err := checkMetadata(cfg.ResultDir, data); err != nil {
		log.Errorf("EXIF round trip: %v", err)
		ok = false
	} else {
		log.Infof("EXIF round trip: ok")
	}

	if cfg.MetricsFile != "" {
		if err := checkWritable(filepath.Dir(cfg.MetricsFile)); err != nil {
			log.Warnf("metrics file %s: %v (metrics will not be written)", cfg.MetricsFile, err)
		} else {
			log.Infof("metrics file %s: folder writable", cfg.MetricsFile)
		}
	}

	log.Infof("Budget: %d KB; tiers: %g/%g/%g MB", cfg.BudgetKB, cfg.TierLowMB, cfg.TierMidMB, cfg.TierHighMB)
	if !ok {
		return ErrCheckFailed
	}
	return nil
}

// checkWritable creates dir if needed and writes then removes a probe file.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".webpdrop-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkEncoder() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 4), uint8(y * 4), 128, 255})
		}
	}
	data, err := codec.NewWebPEncoder(nil).Encode(img, codec.EncodeParams{Quality: 70})
	if err != nil {
		return nil, err
	}
	if _, format, err := codec.Config(data); err != nil || format != "webp" {
		return nil, fmt.Errorf("encoded data does not read back as webp (format %q, err %v)", format, err)
	}
	return data, nil
}

// checkMetadata writes an untagged WebP into dir, reattaches probeEXIF and
// reads the Make tag back.
func checkMetadata(dir string, webpData []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, ".webpdrop-check.webp")
	defer os.Remove(path)

	if err := naming.WriteFileAtomic(path, webpData); err != nil {
		return err
	}
	preserved, err := metadata.Reattach(path, probeEXIF)
	if err != nil {
		return err
	}
	if !preserved {
		return errors.New("metadata not preserved")
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	blob, err := metadata.Extract(out, "webp")
	if err != nil {
		return err
	}
	tags, err := metadata.Tags(blob)
	if err != nil {
		return err
	}
	if !strings.Contains(tags["Make"], "webpdrop") {
		return fmt.Errorf("make tag = %s after round trip", tags["Make"])
	}
	return nil
}
