package exporter

import (
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

const toolProbeTTL = 5 * time.Minute

// ToolProber reports whether the external tools the pipeline depends on
// are available. The orchestrator consults it before doing any work.
type ToolProber interface {
	Check() error
}

// ToolChecker probes for the downloader and media-processor binaries and
// caches the result, so concurrent exports do not hit the filesystem on
// every request.
type ToolChecker struct {
	downloader string
	processor  string
	ttl        time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	probedAt time.Time
	result   error
}

func NewToolChecker(downloader, processor string, logger *slog.Logger) *ToolChecker {
	return &ToolChecker{
		downloader: downloader,
		processor:  processor,
		ttl:        toolProbeTTL,
		logger:     logger,
	}
}

// Check returns nil when both tools resolve on PATH, or a ToolMissing
// stage error naming the absent tool. Results are cached for the TTL.
func (c *ToolChecker) Check() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.probedAt.IsZero() && time.Since(c.probedAt) < c.ttl {
		return c.result
	}

	c.result = c.probe()
	c.probedAt = time.Now()
	return c.result
}

// Invalidate clears the cached probe, forcing a fresh LookPath next time.
func (c *ToolChecker) Invalidate() {
	c.mu.Lock()
	c.probedAt = time.Time{}
	c.result = nil
	c.mu.Unlock()
}

func (c *ToolChecker) probe() error {
	if _, err := exec.LookPath(c.downloader); err != nil {
		c.logger.Warn("downloader tool not found", "bin", c.downloader)
		return stageErrorf(CategoryToolMissing,
			"%s is not installed on the server", c.downloader)
	}
	if _, err := exec.LookPath(c.processor); err != nil {
		c.logger.Warn("media processor tool not found", "bin", c.processor)
		return stageErrorf(CategoryToolMissing,
			"%s is not installed on the server", c.processor)
	}
	return nil
}
