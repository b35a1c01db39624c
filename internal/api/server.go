package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clipbot/clipbot-server/internal/analysis"
	"github.com/clipbot/clipbot-server/internal/artifact"
	"github.com/clipbot/clipbot-server/internal/exporter"
	"github.com/clipbot/clipbot-server/internal/twitch"
)

// ExportService is the slice of the orchestrator the route layer needs.
type ExportService interface {
	Export(ctx context.Context, req exporter.Request) (*exporter.Artifact, error)
}

// TwitchService is the metadata-lookup surface consumed by the routes.
type TwitchService interface {
	StreamInfo(ctx context.Context, channel string) (*twitch.Stream, error)
	UserInfo(ctx context.Context, channel string) (*twitch.User, error)
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Exporter   ExportService
	Artifacts  artifact.Repository
	StorageDir string
	Analysis   analysis.Client
	Twitch     TwitchService
	Logger     *slog.Logger
	StartTime  time.Time
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
