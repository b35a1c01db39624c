package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/clipbot/clipbot-server/internal/logging"
)

// WorkUnit represents one pipeline execution. Its identifier partitions
// the scratch namespace so concurrent requests never collide, and every
// temp path it hands out is registered for removal by Cleanup.
type WorkUnit struct {
	id         string
	scratchDir string
	logger     *slog.Logger

	mu    sync.Mutex
	paths []string
}

// NewWorkUnit creates a work unit with a fresh unguessable identifier.
func NewWorkUnit(scratchDir string, logger *slog.Logger) *WorkUnit {
	id := uuid.NewString()
	return &WorkUnit{
		id:         id,
		scratchDir: scratchDir,
		logger:     logging.WithWorkID(logger, id),
	}
}

// ID returns the unique work-unit identifier.
func (w *WorkUnit) ID() string {
	return w.id
}

// Logger returns the work-unit-scoped logger.
func (w *WorkUnit) Logger() *slog.Logger {
	return w.logger
}

// ScratchPath returns a scratch file path namespaced by the work-unit
// identifier and registers it for cleanup. suffix may be empty.
func (w *WorkUnit) ScratchPath(suffix, ext string) string {
	name := fmt.Sprintf("clip-%s%s.%s", w.id, suffix, ext)
	path := filepath.Join(w.scratchDir, name)
	w.Track(path)
	return path
}

// Track registers a temp path the work unit owns. Paths are tracked as
// soon as they are named, before any tool has a chance to write them.
func (w *WorkUnit) Track(path string) {
	w.mu.Lock()
	w.paths = append(w.paths, path)
	w.mu.Unlock()
}

// Cleanup removes every owned temp path. Removal failures are logged,
// never surfaced; cleanup must not mask the primary result. Safe to call
// from a defer on any exit path.
func (w *WorkUnit) Cleanup() {
	w.mu.Lock()
	paths := w.paths
	w.paths = nil
	w.mu.Unlock()

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove scratch file",
				"path", logging.SanitizePath(p), "error", err)
		}
	}
}
