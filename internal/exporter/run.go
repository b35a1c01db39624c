package exporter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

const maxStderrBytes = 8 * 1024 // 8 KB tail of stderr kept for diagnostics

// RunResult is the structured outcome of one external tool invocation.
type RunResult struct {
	ExitCode   int
	StderrTail string
	Duration   time.Duration
	TimedOut   bool
}

// runTool executes an external binary with a wall-clock timeout and a
// bounded stderr capture. It never interprets exit status as stage
// success or failure; callers fuse the exit code with an independent
// output-existence check.
func runTool(ctx context.Context, logger *slog.Logger, timeout time.Duration, bin string, args ...string) RunResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = io.Writer(&limitedWriter{w: &stderrBuf, limit: maxStderrBytes})
	cmd.Stdout = io.Discard // tools write to their output path, not stdout

	logger.Info("executing tool", "bin", bin, "args", args, "timeout", timeout)

	err := cmd.Run()
	elapsed := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	result := RunResult{
		ExitCode:   exitCode,
		StderrTail: stderrBuf.String(),
		Duration:   elapsed,
		TimedOut:   ctx.Err() == context.DeadlineExceeded,
	}

	if result.TimedOut {
		logger.Warn("tool timed out",
			"bin", bin,
			"timeout", timeout,
			"duration_ms", elapsed.Milliseconds(),
		)
	} else if exitCode != 0 {
		logger.Warn("tool exited non-zero",
			"bin", bin,
			"exit_code", exitCode,
			"duration_ms", elapsed.Milliseconds(),
			"stderr_tail", truncate(result.StderrTail, 512),
		)
	} else {
		logger.Info("tool succeeded",
			"bin", bin,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter is an io.Writer that keeps only the last `limit` bytes.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		// Keep only the tail
		b := lw.w.Bytes()
		lw.w.Reset()
		lw.w.Write(b[len(b)-lw.limit:])
	}
	return n, nil
}
