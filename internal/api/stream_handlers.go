package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipbot/clipbot-server/internal/analysis"
)

func streamCheckHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SourceURL  string `json:"sourceUrl"`
			YouTubeURL string `json:"youtubeUrl"`
			Condition  string `json:"condition"`
			Model      string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteFailure(w, http.StatusBadRequest, "invalid request body", err.Error(), "BAD_REQUEST")
			return
		}
		url := body.SourceURL
		if url == "" {
			url = body.YouTubeURL
		}
		if url == "" || body.Condition == "" {
			WriteFailure(w, http.StatusBadRequest, "sourceUrl and condition are required", "", "BAD_REQUEST")
			return
		}

		result, err := cfg.Analysis.CheckOnce(r.Context(), analysis.CheckOnceRequest{
			YouTubeURL:   url,
			Condition:    body.Condition,
			Model:        body.Model,
			IncludeFrame: true,
		})
		if err != nil {
			writeAnalysisError(w, "Failed to check stream", err)
			return
		}
		WriteJSON(w, http.StatusOK, result)
	}
}

func streamMonitorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SourceURL       string `json:"sourceUrl"`
			YouTubeURL      string `json:"youtubeUrl"`
			Condition       string `json:"condition"`
			Model           string `json:"model"`
			IntervalSeconds int    `json:"intervalSeconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteFailure(w, http.StatusBadRequest, "invalid request body", err.Error(), "BAD_REQUEST")
			return
		}
		url := body.SourceURL
		if url == "" {
			url = body.YouTubeURL
		}
		if url == "" || body.Condition == "" {
			WriteFailure(w, http.StatusBadRequest, "sourceUrl and condition are required", "", "BAD_REQUEST")
			return
		}

		job, err := cfg.Analysis.StartMonitor(r.Context(), analysis.MonitorRequest{
			YouTubeURL:      url,
			Condition:       body.Condition,
			Model:           body.Model,
			IntervalSeconds: body.IntervalSeconds,
		})
		if err != nil {
			writeAnalysisError(w, "Failed to start monitoring", err)
			return
		}
		WriteJSON(w, http.StatusOK, job)
	}
}

func streamStopMonitorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.URL.Query().Get("jobId")
		if jobID == "" {
			WriteFailure(w, http.StatusBadRequest, "jobId is required", "", "BAD_REQUEST")
			return
		}

		if err := cfg.Analysis.StopMonitor(r.Context(), jobID); err != nil {
			writeAnalysisError(w, "Failed to stop monitoring", err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func streamJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := cfg.Analysis.Jobs(r.Context())
		if err != nil {
			writeAnalysisError(w, "Failed to get jobs", err)
			return
		}
		WriteJSON(w, http.StatusOK, jobs)
	}
}

func streamMomentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.URL.Query().Get("jobId")
		if jobID == "" {
			WriteFailure(w, http.StatusBadRequest, "jobId is required", "", "BAD_REQUEST")
			return
		}

		moments, err := cfg.Analysis.Moments(r.Context(), jobID)
		if err != nil {
			writeAnalysisError(w, "Failed to get moments", err)
			return
		}
		WriteJSON(w, http.StatusOK, moments)
	}
}

func twitchStreamHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := r.URL.Query().Get("channel")
		if channel == "" {
			WriteFailure(w, http.StatusBadRequest, "channel is required", "", "BAD_REQUEST")
			return
		}

		stream, err := cfg.Twitch.StreamInfo(r.Context(), channel)
		if err != nil {
			WriteFailure(w, http.StatusBadGateway, "Failed to look up stream", err.Error(), "UPSTREAM_ERROR")
			return
		}
		if stream == nil {
			WriteFailure(w, http.StatusNotFound, "channel is not live", "", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, stream)
	}
}

func twitchUserHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := r.URL.Query().Get("channel")
		if channel == "" {
			WriteFailure(w, http.StatusBadRequest, "channel is required", "", "BAD_REQUEST")
			return
		}

		user, err := cfg.Twitch.UserInfo(r.Context(), channel)
		if err != nil {
			WriteFailure(w, http.StatusBadGateway, "Failed to look up user", err.Error(), "UPSTREAM_ERROR")
			return
		}
		if user == nil {
			WriteFailure(w, http.StatusNotFound, "user not found", "", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, user)
	}
}

func writeAnalysisError(w http.ResponseWriter, message string, err error) {
	var apiErr *analysis.APIError
	if errors.As(err, &apiErr) {
		WriteFailure(w, http.StatusBadGateway, message, apiErr.Error(), "UPSTREAM_ERROR")
		return
	}
	WriteFailure(w, http.StatusInternalServerError, message, err.Error(), "INTERNAL_ERROR")
}
