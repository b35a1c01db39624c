package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/clipbot/clipbot-server/internal/logging"
)

// Orchestrator is the only component that knows, per artifact kind,
// which stages run and in what order. Stages are leaves; they never see
// their caller.
type Orchestrator struct {
	tools      ToolProber
	fetcher    Fetcher
	transcoder Transcoder
	assembler  *Assembler

	scratchDir        string
	fetchTimeoutShort time.Duration
	fetchTimeoutLong  time.Duration
	logger            *slog.Logger
}

type OrchestratorConfig struct {
	Tools             ToolProber
	Fetcher           Fetcher
	Transcoder        Transcoder
	Assembler         *Assembler
	ScratchDir        string
	FetchTimeoutShort time.Duration
	FetchTimeoutLong  time.Duration
	Logger            *slog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create scratch dir: %w", err)
	}
	return &Orchestrator{
		tools:             cfg.Tools,
		fetcher:           cfg.Fetcher,
		transcoder:        cfg.Transcoder,
		assembler:         cfg.Assembler,
		scratchDir:        cfg.ScratchDir,
		fetchTimeoutShort: cfg.FetchTimeoutShort,
		fetchTimeoutLong:  cfg.FetchTimeoutLong,
		logger:            logging.WithComponent(cfg.Logger, "exporter"),
	}, nil
}

// Export runs the full pipeline for one request. Any stage failure
// short-circuits to an error without touching the assembler; the work
// unit finalizer removes every temp path on all exit paths. No retries
// are performed, a failure surfaces immediately to the caller.
func (o *Orchestrator) Export(ctx context.Context, req Request) (*Artifact, error) {
	req.ApplyDefaults()

	logger := logging.WithKind(o.logger, string(req.Kind))
	sm := newStateMachine(logger)

	if err := req.Validate(); err != nil {
		sm.fail()
		return nil, err
	}

	if err := sm.to(StateToolCheck); err != nil {
		return nil, err
	}
	if err := o.tools.Check(); err != nil {
		sm.fail()
		return nil, err
	}

	wu := NewWorkUnit(o.scratchDir, logger)
	defer wu.Cleanup()

	if err := sm.to(StateFetching); err != nil {
		return nil, err
	}
	fetched, err := o.fetcher.Fetch(ctx, wu, req.SourceURL, req.StartTime, req.Duration, o.fetchTimeout(req.Kind))
	if err != nil {
		sm.fail()
		return nil, err
	}

	if err := sm.to(StateTranscoding); err != nil {
		return nil, err
	}
	var final StageResult
	switch req.Kind {
	case KindGIF:
		final, err = o.transcoder.GIF(ctx, wu, fetched.Path, req.FPS, req.Width)
	case KindPlatform:
		final, err = o.transcoder.Vertical(ctx, wu, fetched.Path)
	default:
		final, err = o.transcoder.Remux(ctx, wu, fetched.Path)
	}
	if err != nil {
		sm.fail()
		return nil, err
	}

	if err := sm.to(StateAssembling); err != nil {
		return nil, err
	}
	art, err := o.assembler.Assemble(ctx, wu, final, req.Kind, mimeFor(req.Kind), inlinePreferred(req.Kind))
	if err != nil {
		sm.fail()
		return nil, err
	}

	art.Duration = req.Duration
	if req.Kind == KindPlatform {
		art.Resolution = fmt.Sprintf("%dx%d", VerticalWidth, VerticalHeight)
		art.Platform = NewPlatformMeta(req.Platform)
	}

	if err := sm.to(StateDone); err != nil {
		return nil, err
	}

	logger.Info("export complete",
		"work_id", wu.ID(),
		"bytes", art.Size,
		"inline", art.InlineBase64 != "",
	)

	return art, nil
}

// fetchTimeout returns the wall-clock budget for the fetch stage: short
// for preview-sized artifacts, long for full videos and vertical exports.
func (o *Orchestrator) fetchTimeout(kind Kind) time.Duration {
	switch kind {
	case KindVideo, KindPlatform:
		return o.fetchTimeoutLong
	default:
		return o.fetchTimeoutShort
	}
}

func mimeFor(kind Kind) string {
	if kind == KindGIF {
		return "image/gif"
	}
	return "video/mp4"
}

// inlinePreferred marks kinds intended for direct preview embedding.
// Full videos and platform exports always go to durable storage.
func inlinePreferred(kind Kind) bool {
	switch kind {
	case KindClip, KindGIF:
		return true
	default:
		return false
	}
}
