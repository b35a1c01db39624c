package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipbot/clipbot-server/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/clip/generate", clipGenerateHandler(cfg))
		r.Post("/clip/video", clipVideoHandler(cfg))
		r.Post("/gif/generate", gifGenerateHandler(cfg))
		r.Post("/export", platformExportHandler(cfg))

		r.Get("/files", listFilesHandler(cfg))
		r.Get("/files/{id}", filesHandler(cfg))

		r.Post("/stream/check", streamCheckHandler(cfg))
		r.Post("/stream/monitor", streamMonitorHandler(cfg))
		r.Delete("/stream/monitor", streamStopMonitorHandler(cfg))
		r.Get("/stream/jobs", streamJobsHandler(cfg))
		r.Get("/stream/moments", streamMomentsHandler(cfg))

		r.Get("/twitch/stream", twitchStreamHandler(cfg))
		r.Get("/twitch/user", twitchUserHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}
