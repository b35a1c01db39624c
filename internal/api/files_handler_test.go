package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipbot/clipbot-server/internal/artifact"
)

type memArtifactRepo struct {
	records map[string]*artifact.Record
	order   []string
}

func newMemArtifactRepo() *memArtifactRepo {
	return &memArtifactRepo{records: map[string]*artifact.Record{}}
}

func (m *memArtifactRepo) Create(ctx context.Context, rec *artifact.Record) error {
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *memArtifactRepo) Get(ctx context.Context, id string) (*artifact.Record, error) {
	return m.records[id], nil
}

func (m *memArtifactRepo) List(ctx context.Context, limit int) ([]*artifact.Record, error) {
	var out []*artifact.Record
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[m.order[i]])
	}
	return out, nil
}

func (m *memArtifactRepo) Delete(ctx context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func newFilesRouter(t *testing.T, repo artifact.Repository, storageDir string) http.Handler {
	t.Helper()
	return NewRouter(ServerConfig{
		Artifacts:  repo,
		StorageDir: storageDir,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		StartTime:  time.Now(),
	})
}

func TestFilesHandler_ServesArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip-abc.mp4"), []byte("mp4-payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := newMemArtifactRepo()
	repo.Create(context.Background(), &artifact.Record{
		ID:        "abc",
		Filename:  "clip-abc.mp4",
		MimeType:  "video/mp4",
		Size:      11,
		Kind:      "video",
		CreatedAt: time.Now(),
	})

	router := newFilesRouter(t, repo, dir)
	req := httptest.NewRequest(http.MethodGet, "/api/files/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Body.String(); got != "mp4-payload" {
		t.Errorf("body = %q", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestFilesHandler_SupportsRangeRequests(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip-abc.mp4"), []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := newMemArtifactRepo()
	repo.Create(context.Background(), &artifact.Record{
		ID:        "abc",
		Filename:  "clip-abc.mp4",
		MimeType:  "video/mp4",
		CreatedAt: time.Now(),
	})

	router := newFilesRouter(t, repo, dir)
	req := httptest.NewRequest(http.MethodGet, "/api/files/abc", nil)
	req.Header.Set("Range", "bytes=2-5")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusPartialContent)
	}
	if got := rr.Body.String(); got != "2345" {
		t.Errorf("range body = %q, want 2345", got)
	}
}

func TestFilesHandler_UnknownID(t *testing.T) {
	router := newFilesRouter(t, newMemArtifactRepo(), t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/api/files/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestFilesHandler_IndexedButMissingOnDisk(t *testing.T) {
	repo := newMemArtifactRepo()
	repo.Create(context.Background(), &artifact.Record{
		ID:        "gone",
		Filename:  "clip-gone.mp4",
		MimeType:  "video/mp4",
		CreatedAt: time.Now(),
	})

	router := newFilesRouter(t, repo, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/api/files/gone", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListFilesHandler_NewestFirst(t *testing.T) {
	repo := newMemArtifactRepo()
	for _, id := range []string{"a", "b", "c"} {
		repo.Create(context.Background(), &artifact.Record{
			ID:        id,
			Filename:  "clip-" + id + ".mp4",
			MimeType:  "video/mp4",
			Kind:      "video",
			CreatedAt: time.Now(),
		})
	}

	router := newFilesRouter(t, repo, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp ArtifactsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Artifacts) != 3 {
		t.Fatalf("len = %d, want 3", len(resp.Artifacts))
	}
	if resp.Artifacts[0].ID != "c" {
		t.Errorf("first = %q, want c", resp.Artifacts[0].ID)
	}
}

func TestHealthHandler(t *testing.T) {
	router := newFilesRouter(t, newMemArtifactRepo(), t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
}
