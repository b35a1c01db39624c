package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clipbot/clipbot-server/internal/analysis"
	"github.com/clipbot/clipbot-server/internal/api"
	"github.com/clipbot/clipbot-server/internal/artifact"
	"github.com/clipbot/clipbot-server/internal/config"
	"github.com/clipbot/clipbot-server/internal/exporter"
	"github.com/clipbot/clipbot-server/internal/logging"
	"github.com/clipbot/clipbot-server/internal/twitch"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.StorageDir(), 0755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting clipbot server",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
	)

	db, err := artifact.NewDB(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := artifact.NewRepository(db.Conn())

	tools := exporter.NewToolChecker(cfg.DownloaderBin(), cfg.ProcessorBin(), logger)
	if err := tools.Check(); err != nil {
		logger.Warn("export tools unavailable, exports will fail until installed", "error", err)
	}

	assembler := exporter.NewAssembler(repo, cfg.StorageDir(), cfg.MaxInlineBytes(), logger)

	orchestrator, err := exporter.NewOrchestrator(exporter.OrchestratorConfig{
		Tools:             tools,
		Fetcher:           exporter.NewYtDlpFetcher(cfg.DownloaderBin(), logger),
		Transcoder:        exporter.NewFFmpegTranscoder(cfg.ProcessorBin(), cfg.TranscodeTimeout(), cfg.PaletteTimeout(), logger),
		Assembler:         assembler,
		ScratchDir:        cfg.ScratchDir(),
		FetchTimeoutShort: cfg.FetchTimeoutShort(),
		FetchTimeoutLong:  cfg.FetchTimeoutLong(),
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize export pipeline: %w", err)
	}

	analysisClient := analysis.NewHTTPClient(cfg.AnalysisBaseURL(), logger)
	twitchClient := twitch.NewClient(cfg.TwitchClientID(), cfg.TwitchAccessToken(), logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Exporter:   orchestrator,
		Artifacts:  repo,
		StorageDir: cfg.StorageDir(),
		Analysis:   analysisClient,
		Twitch:     twitchClient,
		Logger:     logger,
		StartTime:  startTime,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
