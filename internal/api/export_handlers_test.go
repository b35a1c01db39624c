package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clipbot/clipbot-server/internal/exporter"
)

type fakeExportService struct {
	artifact *exporter.Artifact
	err      error
	lastReq  exporter.Request
}

func (f *fakeExportService) Export(ctx context.Context, req exporter.Request) (*exporter.Artifact, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.artifact, nil
}

func testServerConfig(svc ExportService) ServerConfig {
	return ServerConfig{
		Exporter:  svc,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		StartTime: time.Now(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestClipGenerate_InlineArtifact(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("clip-bytes"))
	svc := &fakeExportService{artifact: &exporter.Artifact{
		ID:           "wu-1",
		Kind:         exporter.KindClip,
		MimeType:     "video/mp4",
		Size:         10,
		InlineBase64: payload,
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipGenerateHandler(cfg), "/api/clip/generate", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
		"startTime": 10,
		"duration":  15,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp ClipResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.ClipData == "" {
		t.Error("clipData empty")
	}
	if resp.MimeType != "video/mp4" {
		t.Errorf("mimeType = %q, want video/mp4", resp.MimeType)
	}

	if svc.lastReq.Kind != exporter.KindClip {
		t.Errorf("kind = %q, want clip", svc.lastReq.Kind)
	}
	if svc.lastReq.StartTime != 10 || svc.lastReq.Duration != 15 {
		t.Errorf("window = (%v, %v), want (10, 15)", svc.lastReq.StartTime, svc.lastReq.Duration)
	}
}

func TestClipGenerate_AcceptsLegacyYouTubeURLField(t *testing.T) {
	svc := &fakeExportService{artifact: &exporter.Artifact{MimeType: "video/mp4"}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipGenerateHandler(cfg), "/api/clip/generate", map[string]interface{}{
		"youtubeUrl": "https://youtube.com/watch?v=Y",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastReq.SourceURL != "https://youtube.com/watch?v=Y" {
		t.Errorf("sourceURL = %q", svc.lastReq.SourceURL)
	}
}

func TestClipGenerate_MissingSourceURL(t *testing.T) {
	svc := &fakeExportService{}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipGenerateHandler(cfg), "/api/clip/generate", map[string]interface{}{
		"startTime": 10,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp FailureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success {
		t.Error("success = true on failure response")
	}
	if !strings.Contains(resp.Error, "sourceUrl") {
		t.Errorf("error = %q, want mention of sourceUrl", resp.Error)
	}
}

func TestClipVideo_DownloadURLNotInline(t *testing.T) {
	svc := &fakeExportService{artifact: &exporter.Artifact{
		ID:          "wu-2",
		Kind:        exporter.KindVideo,
		MimeType:    "video/mp4",
		Size:        40 << 20, // 40MB
		FileID:      "file-2",
		DownloadURL: "/api/files/file-2",
		Duration:    30,
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipVideoHandler(cfg), "/api/clip/video", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp VideoResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.DownloadURL != "/api/files/file-2" {
		t.Errorf("downloadUrl = %q", resp.DownloadURL)
	}
	if resp.Size != "40.00 MB" {
		t.Errorf("size = %q, want 40.00 MB", resp.Size)
	}

	// Large artifacts must never be inlined into the JSON body.
	if strings.Contains(rr.Body.String(), "clipData") {
		t.Error("video response contains inline payload field")
	}
}

func TestGIFGenerate_Inline(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("gif-bytes"))
	svc := &fakeExportService{artifact: &exporter.Artifact{
		ID:           "wu-3",
		Kind:         exporter.KindGIF,
		MimeType:     "image/gif",
		Size:         9,
		InlineBase64: payload,
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, gifGenerateHandler(cfg), "/api/gif/generate", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
		"fps":       12,
		"width":     320,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp GIFResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.GifData == "" || resp.MimeType != "image/gif" {
		t.Errorf("unexpected gif response: %+v", resp)
	}
	if svc.lastReq.FPS != 12 || svc.lastReq.Width != 320 {
		t.Errorf("loop options = (%d, %d), want (12, 320)", svc.lastReq.FPS, svc.lastReq.Width)
	}
}

func TestPlatformExport_TikTokMetadata(t *testing.T) {
	svc := &fakeExportService{artifact: &exporter.Artifact{
		ID:          "wu-4",
		Kind:        exporter.KindPlatform,
		MimeType:    "video/mp4",
		Size:        5 << 20,
		FileID:      "file-4",
		DownloadURL: "/api/files/file-4",
		Duration:    15,
		Resolution:  "1080x1920",
		Platform:    exporter.NewPlatformMeta("tiktok"),
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, platformExportHandler(cfg), "/api/export", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
		"platform":  "tiktok",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp PlatformExportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Resolution != "1080x1920" {
		t.Errorf("resolution = %q, want 1080x1920", resp.Resolution)
	}
	if resp.Metadata == nil || !strings.Contains(resp.Metadata.Hashtags, "#fyp") {
		t.Errorf("metadata missing #fyp hashtag: %+v", resp.Metadata)
	}
	if resp.AspectRatio != "9:16 (vertical)" {
		t.Errorf("aspectRatio = %q", resp.AspectRatio)
	}
}

func TestExport_ToolMissingFailure(t *testing.T) {
	svc := &fakeExportService{err: &exporter.StageError{
		Category: exporter.CategoryToolMissing,
		Detail:   "yt-dlp is not installed on the server",
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipGenerateHandler(cfg), "/api/clip/generate", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var resp FailureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success {
		t.Error("success = true on failure response")
	}
	if !strings.Contains(resp.Error, "not installed") {
		t.Errorf("error = %q, want mention of missing install", resp.Error)
	}
	if resp.Code != string(exporter.CategoryToolMissing) {
		t.Errorf("code = %q, want %s", resp.Code, exporter.CategoryToolMissing)
	}
}

func TestExport_FetchTimeoutMapsToGatewayTimeout(t *testing.T) {
	svc := &fakeExportService{err: &exporter.StageError{
		Category: exporter.CategoryFetchTimeout,
		Detail:   "download exceeded 1m0s budget",
	}}
	cfg := testServerConfig(svc)

	rr := postJSON(t, clipVideoHandler(cfg), "/api/clip/video", map[string]interface{}{
		"sourceUrl": "https://youtube.com/watch?v=X",
	})
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusGatewayTimeout)
	}

	var resp FailureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != string(exporter.CategoryFetchTimeout) {
		t.Errorf("code = %q, want %s", resp.Code, exporter.CategoryFetchTimeout)
	}
}
