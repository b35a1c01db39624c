package exporter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkUnit_UniqueIDs(t *testing.T) {
	dir := t.TempDir()
	a := NewWorkUnit(dir, discardLogger())
	b := NewWorkUnit(dir, discardLogger())

	if a.ID() == "" {
		t.Fatal("work unit ID is empty")
	}
	if a.ID() == b.ID() {
		t.Fatalf("two work units share ID %q", a.ID())
	}
}

func TestWorkUnit_ConcurrentNoCollision(t *testing.T) {
	dir := t.TempDir()

	const n = 16
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wu := NewWorkUnit(dir, discardLogger())
			p := wu.ScratchPath("", "mp4")
			if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
				t.Errorf("write scratch file: %v", err)
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, p := range paths {
		if seen[p] {
			t.Fatalf("scratch path collision: %s", p)
		}
		seen[p] = true
	}
}

func TestWorkUnit_ScratchPathNamespaced(t *testing.T) {
	dir := t.TempDir()
	wu := NewWorkUnit(dir, discardLogger())

	p := wu.ScratchPath("-palette", "png")
	base := filepath.Base(p)
	if !strings.Contains(base, wu.ID()) {
		t.Errorf("scratch path %q not namespaced by work unit ID %q", base, wu.ID())
	}
	if !strings.HasSuffix(base, "-palette.png") {
		t.Errorf("scratch path %q missing suffix and extension", base)
	}
}

func TestWorkUnit_CleanupRemovesAllPaths(t *testing.T) {
	dir := t.TempDir()
	wu := NewWorkUnit(dir, discardLogger())

	for _, f := range []struct{ suffix, ext string }{
		{"", "mp4"}, {"-palette", "png"}, {"", "gif"},
	} {
		p := wu.ScratchPath(f.suffix, f.ext)
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatalf("write scratch file: %v", err)
		}
	}

	wu.Cleanup()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir not empty after cleanup: %d files remain", len(entries))
	}
}

func TestWorkUnit_CleanupToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	wu := NewWorkUnit(dir, discardLogger())

	// Registered but never written.
	wu.ScratchPath("", "mp4")
	wu.ScratchPath("-palette", "png")

	// Must not panic or error.
	wu.Cleanup()
}

func TestWorkUnit_CleanupIdempotent(t *testing.T) {
	dir := t.TempDir()
	wu := NewWorkUnit(dir, discardLogger())

	p := wu.ScratchPath("", "mp4")
	if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
		t.Fatalf("write scratch file: %v", err)
	}

	wu.Cleanup()
	wu.Cleanup()

	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("scratch file still present after cleanup")
	}
}
