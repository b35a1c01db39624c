package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
)

// filesHandler streams a persisted artifact. http.ServeContent covers
// Range requests, which matters for video scrubbing in the dashboard.
func filesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteFailure(w, http.StatusBadRequest, "file id required", "", "BAD_REQUEST")
			return
		}

		rec, err := cfg.Artifacts.Get(r.Context(), id)
		if err != nil {
			WriteFailure(w, http.StatusInternalServerError, "failed to look up file", err.Error(), "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteFailure(w, http.StatusNotFound, "file not found", "", "NOT_FOUND")
			return
		}

		path := filepath.Join(cfg.StorageDir, rec.Filename)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				WriteFailure(w, http.StatusNotFound, "file not found", "", "NOT_FOUND")
				return
			}
			WriteFailure(w, http.StatusInternalServerError, "failed to open file", err.Error(), "INTERNAL_ERROR")
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", rec.MimeType)
		http.ServeContent(w, r, rec.Filename, rec.CreatedAt, f)
	}
}

func listFilesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := cfg.Artifacts.List(r.Context(), 50)
		if err != nil {
			WriteFailure(w, http.StatusInternalServerError, "failed to list files", err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := ArtifactsResponse{Artifacts: make([]ArtifactResponse, len(records))}
		for i, rec := range records {
			resp.Artifacts[i] = ArtifactResponse{
				ID:        rec.ID,
				Filename:  rec.Filename,
				MimeType:  rec.MimeType,
				Size:      rec.Size,
				Kind:      rec.Kind,
				CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
