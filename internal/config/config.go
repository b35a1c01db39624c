// Package config provides configuration management for the ClipBot server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".clipbot"

	// Environment variable names
	EnvPort       = "CLIPBOT_PORT"
	EnvLogLevel   = "CLIPBOT_LOG_LEVEL"
	EnvDataDir    = "CLIPBOT_DATA_DIR"
	EnvScratchDir = "CLIPBOT_SCRATCH_DIR"

	// External tool environment variable names
	EnvDownloaderBin = "CLIPBOT_DOWNLOADER"
	EnvProcessorBin  = "CLIPBOT_FFMPEG"

	// Pipeline tuning
	EnvMaxInlineBytes = "CLIPBOT_MAX_INLINE_BYTES"

	// External collaborators
	EnvAnalysisBaseURL   = "CLIPBOT_ANALYSIS_URL"
	EnvTwitchClientID    = "TWITCH_CLIENT_ID"
	EnvTwitchAccessToken = "TWITCH_ACCESS_TOKEN"

	// Database filename
	DBFilename = "clipbot.db"

	// Tool defaults
	DefaultDownloaderBin = "yt-dlp"
	DefaultProcessorBin  = "ffmpeg"

	// Default upstream analysis service
	DefaultAnalysisBaseURL = "https://vibestream.machinefi.com"

	// Stage timeout defaults, in seconds. Short covers clip and gif
	// fetches, long covers full video and vertical exports.
	DefaultFetchTimeoutShort = 60
	DefaultFetchTimeoutLong  = 120
	DefaultTranscodeTimeout  = 120
	DefaultPaletteTimeout    = 30

	// Largest artifact returned inline as base64.
	DefaultMaxInlineBytes = 8 * 1024 * 1024
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ScratchDir() string
	StorageDir() string
	DownloaderBin() string
	ProcessorBin() string
	FetchTimeoutShort() time.Duration
	FetchTimeoutLong() time.Duration
	TranscodeTimeout() time.Duration
	PaletteTimeout() time.Duration
	MaxInlineBytes() int64
	AnalysisBaseURL() string
	TwitchClientID() string
	TwitchAccessToken() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port           int
	logLevel       string
	dataDir        string
	scratchDir     string
	downloaderBin  string
	processorBin   string
	maxInlineBytes int64

	analysisBaseURL   string
	twitchClientID    string
	twitchAccessToken string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		downloaderBin:   DefaultDownloaderBin,
		processorBin:    DefaultProcessorBin,
		maxInlineBytes:  DefaultMaxInlineBytes,
		analysisBaseURL: DefaultAnalysisBaseURL,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	// Override scratch directory from environment
	if sd := os.Getenv(EnvScratchDir); sd != "" {
		cfg.scratchDir = sd
	}

	if db := os.Getenv(EnvDownloaderBin); db != "" {
		cfg.downloaderBin = db
	}
	if pb := os.Getenv(EnvProcessorBin); pb != "" {
		cfg.processorBin = pb
	}

	if mi := os.Getenv(EnvMaxInlineBytes); mi != "" {
		n, err := strconv.ParseInt(mi, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvMaxInlineBytes)
		}
		cfg.maxInlineBytes = n
	}

	if u := os.Getenv(EnvAnalysisBaseURL); u != "" {
		cfg.analysisBaseURL = u
	}
	cfg.twitchClientID = os.Getenv(EnvTwitchClientID)
	cfg.twitchAccessToken = os.Getenv(EnvTwitchAccessToken)

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ScratchDir returns the temporary-file area used by export pipelines
func (c *EnvConfig) ScratchDir() string {
	if c.scratchDir != "" {
		return c.scratchDir
	}
	return filepath.Join(os.TempDir(), "clipbot")
}

// StorageDir returns the durable storage directory for large artifacts
func (c *EnvConfig) StorageDir() string {
	return filepath.Join(c.dataDir, "artifacts")
}

func (c *EnvConfig) DownloaderBin() string {
	return c.downloaderBin
}

func (c *EnvConfig) ProcessorBin() string {
	return c.processorBin
}

func (c *EnvConfig) FetchTimeoutShort() time.Duration {
	return time.Duration(DefaultFetchTimeoutShort) * time.Second
}

func (c *EnvConfig) FetchTimeoutLong() time.Duration {
	return time.Duration(DefaultFetchTimeoutLong) * time.Second
}

func (c *EnvConfig) TranscodeTimeout() time.Duration {
	return time.Duration(DefaultTranscodeTimeout) * time.Second
}

func (c *EnvConfig) PaletteTimeout() time.Duration {
	return time.Duration(DefaultPaletteTimeout) * time.Second
}

func (c *EnvConfig) MaxInlineBytes() int64 {
	return c.maxInlineBytes
}

func (c *EnvConfig) AnalysisBaseURL() string {
	return c.analysisBaseURL
}

func (c *EnvConfig) TwitchClientID() string {
	return c.twitchClientID
}

func (c *EnvConfig) TwitchAccessToken() string {
	return c.twitchAccessToken
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
