package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipbot/clipbot-server/internal/exporter"
)

func clipGenerateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeExportRequest(w, r, exporter.KindClip)
		if !ok {
			return
		}

		art, err := cfg.Exporter.Export(r.Context(), req)
		if err != nil {
			writeExportError(w, "Failed to generate clip", err)
			return
		}

		WriteJSON(w, http.StatusOK, ClipResponse{
			Success:     true,
			ClipID:      art.ID,
			ClipData:    art.InlineBase64,
			DownloadURL: art.DownloadURL,
			MimeType:    art.MimeType,
			Size:        art.Size,
		})
	}
}

func clipVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeExportRequest(w, r, exporter.KindVideo)
		if !ok {
			return
		}

		art, err := cfg.Exporter.Export(r.Context(), req)
		if err != nil {
			writeExportError(w, "Failed to generate video clip", err)
			return
		}

		WriteJSON(w, http.StatusOK, VideoResponse{
			Success:     true,
			ClipID:      art.ID,
			DownloadURL: art.DownloadURL,
			MimeType:    art.MimeType,
			Size:        sizeMB(art.Size),
			Duration:    art.Duration,
		})
	}
}

func gifGenerateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeExportRequest(w, r, exporter.KindGIF)
		if !ok {
			return
		}

		art, err := cfg.Exporter.Export(r.Context(), req)
		if err != nil {
			writeExportError(w, "Failed to generate GIF", err)
			return
		}

		WriteJSON(w, http.StatusOK, GIFResponse{
			Success:     true,
			GifID:       art.ID,
			GifData:     art.InlineBase64,
			DownloadURL: art.DownloadURL,
			MimeType:    art.MimeType,
			Size:        art.Size,
		})
	}
}

func platformExportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeExportRequest(w, r, exporter.KindPlatform)
		if !ok {
			return
		}

		art, err := cfg.Exporter.Export(r.Context(), req)
		if err != nil {
			writeExportError(w, "Failed to export clip", err)
			return
		}

		WriteJSON(w, http.StatusOK, PlatformExportResponse{
			Success:      true,
			ClipID:       art.ID,
			Platform:     art.Platform.Platform,
			PlatformName: art.Platform.PlatformName,
			DownloadURL:  art.DownloadURL,
			Size:         sizeMB(art.Size),
			Duration:     art.Duration,
			Resolution:   art.Resolution,
			AspectRatio:  "9:16 (vertical)",
			Metadata:     art.Platform,
			Message:      art.Platform.PlatformName + "-ready vertical clip created!",
		})
	}
}

// decodeExportRequest parses the shared request body and enforces input
// presence before the pipeline runs.
func decodeExportRequest(w http.ResponseWriter, r *http.Request, kind exporter.Kind) (exporter.Request, bool) {
	var body ExportRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body", err.Error(), "BAD_REQUEST")
		return exporter.Request{}, false
	}

	if body.URL() == "" {
		WriteFailure(w, http.StatusBadRequest, "sourceUrl is required", "", "BAD_REQUEST")
		return exporter.Request{}, false
	}
	if body.StartTime < 0 {
		WriteFailure(w, http.StatusBadRequest, "startTime must not be negative", "", "BAD_REQUEST")
		return exporter.Request{}, false
	}

	return exporter.Request{
		Kind:      kind,
		SourceURL: body.URL(),
		StartTime: body.StartTime,
		Duration:  body.Duration,
		FPS:       body.FPS,
		Width:     body.Width,
		Platform:  body.Platform,
	}, true
}

// writeExportError maps pipeline failures onto the uniform failure
// contract. Stage failures surface their raw diagnostic text as the
// error with the stage category as the machine-checkable code.
func writeExportError(w http.ResponseWriter, message string, err error) {
	var stageErr *exporter.StageError
	if errors.As(err, &stageErr) {
		status := http.StatusInternalServerError
		if stageErr.Category == exporter.CategoryFetchTimeout {
			status = http.StatusGatewayTimeout
		}
		WriteFailure(w, status, stageErr.Detail, message, string(stageErr.Category))
		return
	}
	WriteFailure(w, http.StatusInternalServerError, message, err.Error(), "INTERNAL_ERROR")
}
