package naming

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

func TestDateFolderName(t *testing.T) {
	got := DateFolderName(time.Date(2026, time.March, 7, 23, 59, 0, 0, time.Local))
	if got != "03072026" {
		t.Errorf("DateFolderName = %q, want 03072026", got)
	}
}

func TestOutputFolderForToday_CreatedOnceAndReused(t *testing.T) {
	root := t.TempDir()
	r := &Router{ResultDir: filepath.Join(root, "result"), FailedDir: filepath.Join(root, "failed"),
		Now: fixedClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local))}

	first, err := r.OutputFolderForToday()
	if err != nil {
		t.Fatalf("OutputFolderForToday: %v", err)
	}
	if want := filepath.Join(root, "result", "10162026"); first != want {
		t.Errorf("folder = %q, want %q", first, want)
	}
	touch(t, first, "a.webp")

	second, err := r.OutputFolderForToday()
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second != first {
		t.Errorf("second call = %q, want %q", second, first)
	}
	if _, err := os.Stat(filepath.Join(second, "a.webp")); err != nil {
		t.Errorf("existing content lost: %v", err)
	}
}

func TestOutputFolderForToday_NewDate(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.October, 16, 23, 59, 59, 0, time.Local)
	r := &Router{ResultDir: root, Now: func() time.Time { return now }}

	a, _ := r.OutputFolderForToday()
	now = now.Add(2 * time.Second)
	b, _ := r.OutputFolderForToday()
	if a == b {
		t.Errorf("folders should differ across midnight, both %q", a)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"jpg", "photo.jpg", "photo.webp"},
		{"upper ext", "IMG_0001.JPEG", "IMG_0001.webp"},
		{"dots in stem", "trip.day1.png", "trip.day1.webp"},
		{"webp input", "already.webp", "already.webp"},
		{"no ext", "scan", "scan.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputPath("/out", tt.src, ".webp")
			if want := filepath.Join("/out", tt.want); got != want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.src, got, want)
			}
		})
	}
}

func TestQuarantinePathFor(t *testing.T) {
	failed := t.TempDir()
	r := &Router{FailedDir: failed, Now: fixedClock(time.Date(2026, time.October, 16, 14, 25, 1, 0, time.Local))}

	if got, want := r.QuarantinePathFor("bad.jpg"), filepath.Join(failed, "bad.jpg"); got != want {
		t.Errorf("free name = %q, want %q", got, want)
	}

	touch(t, failed, "bad.jpg")
	stamped := filepath.Join(failed, "bad_20261016_142501.jpg")
	if got := r.QuarantinePathFor("bad.jpg"); got != stamped {
		t.Errorf("collision = %q, want %q", got, stamped)
	}

	touch(t, failed, "bad_20261016_142501.jpg")
	if got, want := r.QuarantinePathFor("bad.jpg"), filepath.Join(failed, "bad_20261016_142501_2.jpg"); got != want {
		t.Errorf("same-second collision = %q, want %q", got, want)
	}
}

func TestQuarantine_UniqueDestinations(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "source")
	failed := filepath.Join(root, "failed")
	os.MkdirAll(src, 0o755)
	r := &Router{FailedDir: failed, Now: fixedClock(time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local))}

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		path := touch(t, src, "corrupt.png")
		dest, err := r.Quarantine(path)
		if err != nil {
			t.Fatalf("Quarantine #%d: %v", i, err)
		}
		if seen[dest] {
			t.Fatalf("destination reused: %s", dest)
		}
		seen[dest] = true
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("source still present after quarantine #%d", i)
		}
	}
	entries, _ := os.ReadDir(failed)
	if len(entries) != 4 {
		t.Errorf("failed folder holds %d files, want 4", len(entries))
	}
}

func TestQuarantine_MissingSourceLeavesNothing(t *testing.T) {
	root := t.TempDir()
	r := NewRouter(filepath.Join(root, "result"), filepath.Join(root, "failed"))
	if _, err := r.Quarantine(filepath.Join(root, "nope.jpg")); err == nil {
		t.Error("Quarantine of a missing file should fail")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.webp")
	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "second" {
		t.Errorf("content = %q, want second", b)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	if err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.webp"), []byte("x")); err == nil {
		t.Error("expected error for missing directory")
	}
}
