package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/webpdrop/internal/config"
)

type recordingLogger struct {
	infos, warns, errs []string
}

func (l *recordingLogger) Infof(f string, a ...interface{})  { l.infos = append(l.infos, fmt.Sprintf(f, a...)) }
func (l *recordingLogger) Warnf(f string, a ...interface{})  { l.warns = append(l.warns, fmt.Sprintf(f, a...)) }
func (l *recordingLogger) Errorf(f string, a ...interface{}) { l.errs = append(l.errs, fmt.Sprintf(f, a...)) }

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(root, "source")
	cfg.ResultDir = filepath.Join(root, "result")
	cfg.FailedDir = filepath.Join(root, "failedConvert")
	return &cfg
}

func TestRunCheck_AllPass(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	log := &recordingLogger{}

	if err := RunCheck(cfg, log); err != nil {
		t.Fatalf("RunCheck: %v (errors: %v)", err, log.errs)
	}
	all := strings.Join(log.infos, "\n")
	for _, want := range []string{"source folder", "WebP encoder: ok", "EXIF round trip: ok"} {
		if !strings.Contains(all, want) {
			t.Errorf("missing %q in:\n%s", want, all)
		}
	}
	for _, dir := range []string{cfg.SourceDir, cfg.ResultDir, cfg.FailedDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Errorf("%s not created: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Errorf("%s holds leftover probe files: %d", dir, len(entries))
		}
	}
}

func TestRunCheck_UnwritableFolder(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	// A regular file where the failed folder should be.
	os.WriteFile(cfg.FailedDir, []byte("x"), 0o644)
	log := &recordingLogger{}

	err := RunCheck(cfg, log)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("err = %v, want ErrCheckFailed", err)
	}
	if len(log.errs) != 1 || !strings.HasPrefix(log.errs[0], "failed folder") {
		t.Errorf("errors = %v", log.errs)
	}
}

func TestProbeEXIF_Parses(t *testing.T) {
	data, err := checkEncoder()
	if err != nil {
		t.Fatal(err)
	}
	if err := checkMetadata(t.TempDir(), data); err != nil {
		t.Errorf("checkMetadata: %v", err)
	}
}
