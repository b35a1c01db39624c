// Package exporter turns a time window of an online video into a finished
// media artifact. It chains two external tools (a downloader and a media
// processor) through a fetch stage and a kind-specific transcode stage,
// then packages the result either inline or into durable storage.
package exporter

import "fmt"

// Kind selects the artifact produced by an export.
type Kind string

const (
	KindClip     Kind = "clip"
	KindVideo    Kind = "video"
	KindGIF      Kind = "gif"
	KindPlatform Kind = "platform-export"
)

const (
	// Default window lengths per kind, in seconds.
	DefaultClipDuration     = 15
	DefaultVideoDuration    = 30
	DefaultGIFDuration      = 5
	DefaultPlatformDuration = 15

	// Animated loop defaults.
	DefaultGIFFPS   = 10
	DefaultGIFWidth = 480

	DefaultPlatform = "tiktok"
)

// Request describes one user-initiated export.
type Request struct {
	Kind      Kind
	SourceURL string
	StartTime float64 // seconds into the source
	Duration  float64 // seconds

	// Loop options (gif kind only).
	FPS   int
	Width int

	// Vertical export discriminator ("tiktok" or "youtube").
	Platform string
}

// ApplyDefaults fills zero-valued option fields with per-kind defaults.
func (r *Request) ApplyDefaults() {
	if r.Duration <= 0 {
		switch r.Kind {
		case KindVideo:
			r.Duration = DefaultVideoDuration
		case KindGIF:
			r.Duration = DefaultGIFDuration
		case KindPlatform:
			r.Duration = DefaultPlatformDuration
		default:
			r.Duration = DefaultClipDuration
		}
	}
	if r.Kind == KindGIF {
		if r.FPS <= 0 {
			r.FPS = DefaultGIFFPS
		}
		if r.Width <= 0 {
			r.Width = DefaultGIFWidth
		}
	}
	if r.Kind == KindPlatform && r.Platform == "" {
		r.Platform = DefaultPlatform
	}
}

// Validate checks input presence and bounds. Malformed URLs are left to
// the downloader; only presence is enforced here.
func (r *Request) Validate() error {
	switch r.Kind {
	case KindClip, KindVideo, KindGIF, KindPlatform:
	default:
		return fmt.Errorf("unknown export kind %q", r.Kind)
	}
	if r.SourceURL == "" {
		return fmt.Errorf("sourceUrl is required")
	}
	if r.StartTime < 0 {
		return fmt.Errorf("startTime must not be negative")
	}
	if r.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return nil
}

// StageResult is the outcome of a successful fetch or transcode stage.
// A stage only returns one when its output file exists and is non-empty.
type StageResult struct {
	Path string
	Size int64
}

// PlatformMeta carries the short-form platform posting metadata attached
// to vertical exports.
type PlatformMeta struct {
	Platform     string `json:"platform"`
	PlatformName string `json:"platformName"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Hashtags     string `json:"hashtags"`
}

// Artifact is the final deliverable of an export. Exactly one of
// InlineBase64 or DownloadURL is populated.
type Artifact struct {
	ID       string
	Kind     Kind
	MimeType string
	Size     int64

	InlineBase64 string
	FileID       string
	DownloadURL  string

	Duration   float64
	Resolution string
	Platform   *PlatformMeta
}

// NewPlatformMeta builds posting metadata for the given platform
// discriminator. Anything other than "youtube" is treated as TikTok.
func NewPlatformMeta(platform string) *PlatformMeta {
	name := "TikTok"
	hashtags := "#fyp #viral #foryou #gaming #clips #ClipBot"
	if platform == "youtube" {
		name = "YouTube Shorts"
		hashtags = "#Shorts #viral #gaming #clips #ClipBot"
	}
	return &PlatformMeta{
		Platform:     platform,
		PlatformName: name,
		Title:        "Viral moment detected by ClipBot!",
		Description:  "Caught this epic moment using AI-powered viral detection.\n\n" + hashtags,
		Hashtags:     hashtags,
	}
}
