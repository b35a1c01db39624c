package exporter

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// maxDownloadsExitCode is what yt-dlp exits with when its --max-downloads
// safeguard fires. The requested file is usually on disk by then, so this
// exit code alone proves nothing about failure.
const maxDownloadsExitCode = 101

// Fetcher resolves a source URL plus time window to a local media file.
type Fetcher interface {
	Fetch(ctx context.Context, wu *WorkUnit, url string, start, duration float64, timeout time.Duration) (StageResult, error)
}

// YtDlpFetcher invokes the yt-dlp binary to download a section of a video.
type YtDlpFetcher struct {
	bin    string
	logger *slog.Logger
}

func NewYtDlpFetcher(bin string, logger *slog.Logger) *YtDlpFetcher {
	return &YtDlpFetcher{bin: bin, logger: logger}
}

// Fetch downloads approximately [start, start+duration) of the source into
// the work unit's scratch namespace. Success is fused from exit status AND
// an independent output-file check: yt-dlp reports a non-zero exit via its
// max-downloads safeguard even after writing the file, so a non-zero exit
// only counts as failure when the output is also missing or empty.
func (f *YtDlpFetcher) Fetch(ctx context.Context, wu *WorkUnit, url string, start, duration float64, timeout time.Duration) (StageResult, error) {
	out := wu.ScratchPath("", "mp4")

	args := []string{
		"-f", "best[ext=mp4]/best",
		"--download-sections", sectionExpr(start, duration),
		"-o", out,
		"--no-playlist",
		"--max-downloads", "1",
		"--quiet",
		"--no-warnings",
		url,
	}

	res := runTool(ctx, wu.Logger(), timeout, f.bin, args...)
	if res.TimedOut {
		return StageResult{}, stageErrorf(CategoryFetchTimeout,
			"download exceeded %s budget", timeout)
	}

	stat, statErr := os.Stat(out)
	usable := statErr == nil && stat.Size() > 0

	if res.ExitCode != 0 && !usable {
		return StageResult{}, stageErrorf(CategoryFetchFailed,
			"downloader exited %d with no usable output: %s", res.ExitCode, res.StderrTail)
	}
	if !usable {
		return StageResult{}, stageErrorf(CategoryEmptyOutput,
			"downloader exited cleanly but wrote no data to %s", out)
	}

	if res.ExitCode == maxDownloadsExitCode {
		wu.Logger().Info("downloader hit max-downloads safeguard, output is usable",
			"bytes", stat.Size())
	}

	return StageResult{Path: out, Size: stat.Size()}, nil
}

// sectionExpr builds the yt-dlp section-selection expression *start-end.
func sectionExpr(start, duration float64) string {
	return "*" + formatSeconds(start) + "-" + formatSeconds(start+duration)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
