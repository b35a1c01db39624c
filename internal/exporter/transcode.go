package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Vertical export canvas for short-form platforms.
const (
	VerticalWidth  = 1080
	VerticalHeight = 1920
	VerticalFPS    = 30
)

// Transcoder converts a fetched segment into the requested artifact kind.
type Transcoder interface {
	Remux(ctx context.Context, wu *WorkUnit, input string) (StageResult, error)
	Vertical(ctx context.Context, wu *WorkUnit, input string) (StageResult, error)
	GIF(ctx context.Context, wu *WorkUnit, input string, fps, width int) (StageResult, error)
}

// FFmpegTranscoder drives the ffmpeg binary. All variants share the same
// invocation core; each builds its own filter graph.
type FFmpegTranscoder struct {
	bin            string
	timeout        time.Duration // full encode budget
	paletteTimeout time.Duration // per-pass budget for gif generation
	logger         *slog.Logger
}

func NewFFmpegTranscoder(bin string, timeout, paletteTimeout time.Duration, logger *slog.Logger) *FFmpegTranscoder {
	return &FFmpegTranscoder{
		bin:            bin,
		timeout:        timeout,
		paletteTimeout: paletteTimeout,
		logger:         logger,
	}
}

// Remux re-containerizes the segment into a widely playable mp4 without
// touching geometry. Stream copy keeps it cheap.
func (t *FFmpegTranscoder) Remux(ctx context.Context, wu *WorkUnit, input string) (StageResult, error) {
	out := wu.ScratchPath("-remux", "mp4")
	return t.run(ctx, wu, t.timeout, out,
		"-i", input,
		"-c", "copy",
		"-movflags", "+faststart",
		"-y", out,
	)
}

// Vertical produces an exact 1080x1920 canvas at 30fps. Scaling to cover
// the canvas happens before the center crop; cropping first would cut
// content unpredictably depending on source aspect ratio.
func (t *FFmpegTranscoder) Vertical(ctx context.Context, wu *WorkUnit, input string) (StageResult, error) {
	out := wu.ScratchPath("-vertical", "mp4")
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d:(ow-iw)/2:(oh-ih)/2,fps=%d",
		VerticalWidth, VerticalHeight, VerticalWidth, VerticalHeight, VerticalFPS,
	)
	return t.run(ctx, wu, t.timeout, out,
		"-i", input,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-y", out,
	)
}

// GIF runs the two-pass palette pipeline. The palette must be computed
// from the entire frame sequence before any frame can be quantized
// against it, so palettegen and paletteuse cannot share one pass.
func (t *FFmpegTranscoder) GIF(ctx context.Context, wu *WorkUnit, input string, fps, width int) (StageResult, error) {
	palette := wu.ScratchPath("-palette", "png")
	scaleExpr := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", fps, width)

	_, err := t.run(ctx, wu, t.paletteTimeout, palette,
		"-i", input,
		"-vf", scaleExpr+",palettegen",
		"-y", palette,
	)
	if err != nil {
		return StageResult{}, err
	}

	out := wu.ScratchPath("", "gif")
	filter := fmt.Sprintf("[0:v]%s[x];[x][1:v]paletteuse", scaleExpr)
	return t.run(ctx, wu, t.paletteTimeout, out,
		"-i", input,
		"-i", palette,
		"-filter_complex", filter,
		"-y", out,
	)
}

// run invokes ffmpeg and verifies the output file exists with non-zero
// size. ffmpeg exit codes are trustworthy, but the empty-output check
// still guards against silently truncated writes.
func (t *FFmpegTranscoder) run(ctx context.Context, wu *WorkUnit, timeout time.Duration, out string, args ...string) (StageResult, error) {
	res := runTool(ctx, wu.Logger(), timeout, t.bin, args...)
	if res.TimedOut {
		return StageResult{}, stageErrorf(CategoryTranscodeFailed,
			"media processor exceeded %s budget", timeout)
	}
	if res.ExitCode != 0 {
		return StageResult{}, stageErrorf(CategoryTranscodeFailed,
			"media processor exited %d: %s", res.ExitCode, res.StderrTail)
	}

	stat, err := os.Stat(out)
	if err != nil {
		return StageResult{}, stageErrorf(CategoryTranscodeFailed,
			"media processor exited cleanly but produced no output at %s", out)
	}
	if stat.Size() == 0 {
		return StageResult{}, stageErrorf(CategoryEmptyOutput,
			"media processor wrote zero bytes to %s", out)
	}

	return StageResult{Path: out, Size: stat.Size()}, nil
}
