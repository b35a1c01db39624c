package api

import (
	"fmt"

	"github.com/clipbot/clipbot-server/internal/exporter"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// ExportRequestBody is the wire shape shared by all four export routes.
// youtubeUrl is accepted as a legacy alias for sourceUrl.
type ExportRequestBody struct {
	SourceURL  string  `json:"sourceUrl"`
	YouTubeURL string  `json:"youtubeUrl"`
	StartTime  float64 `json:"startTime"`
	Duration   float64 `json:"duration"`
	FPS        int     `json:"fps"`
	Width      int     `json:"width"`
	Platform   string  `json:"platform"`
}

func (b *ExportRequestBody) URL() string {
	if b.SourceURL != "" {
		return b.SourceURL
	}
	return b.YouTubeURL
}

type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

type ClipResponse struct {
	Success     bool   `json:"success"`
	ClipID      string `json:"clipId"`
	ClipData    string `json:"clipData,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	MimeType    string `json:"mimeType"`
	Size        int64  `json:"size"`
}

type VideoResponse struct {
	Success     bool    `json:"success"`
	ClipID      string  `json:"clipId"`
	DownloadURL string  `json:"downloadUrl"`
	MimeType    string  `json:"mimeType"`
	Size        string  `json:"size"`
	Duration    float64 `json:"duration"`
}

type GIFResponse struct {
	Success     bool   `json:"success"`
	GifID       string `json:"gifId"`
	GifData     string `json:"gifData,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	MimeType    string `json:"mimeType"`
	Size        int64  `json:"size"`
}

type PlatformExportResponse struct {
	Success      bool                   `json:"success"`
	ClipID       string                 `json:"clipId"`
	Platform     string                 `json:"platform"`
	PlatformName string                 `json:"platformName"`
	DownloadURL  string                 `json:"downloadUrl"`
	Size         string                 `json:"size"`
	Duration     float64                `json:"duration"`
	Resolution   string                 `json:"resolution"`
	AspectRatio  string                 `json:"aspectRatio"`
	Metadata     *exporter.PlatformMeta `json:"metadata"`
	Message      string                 `json:"message"`
}

type ArtifactResponse struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

type ArtifactsResponse struct {
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// sizeMB renders a byte count the way the dashboard displays it.
func sizeMB(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
