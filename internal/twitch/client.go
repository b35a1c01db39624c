package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const helixBaseURL = "https://api.twitch.tv/helix"

var channelPattern = regexp.MustCompile(`twitch\.tv/([^/?]+)`)

// ExtractChannelName pulls the channel login out of a Twitch URL.
// Returns an empty string for non-Twitch URLs.
func ExtractChannelName(rawURL string) string {
	m := channelPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Client looks up Twitch metadata.
type Client struct {
	baseURL     string
	clientID    string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewClient(clientID, accessToken string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     helixBaseURL,
		clientID:    clientID,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// configured reports whether real Helix credentials are available.
func (c *Client) configured() bool {
	return c.clientID != "" && c.accessToken != ""
}

// StreamInfo returns live stream metadata for a channel, or nil when the
// channel is offline. Without credentials a mock payload is returned.
func (c *Client) StreamInfo(ctx context.Context, channel string) (*Stream, error) {
	if !c.configured() {
		return mockStream(channel), nil
	}

	var payload struct {
		Data []Stream `json:"data"`
	}
	if err := c.get(ctx, "/streams?user_login="+url.QueryEscape(channel), &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	return &payload.Data[0], nil
}

// UserInfo returns account metadata for a channel. Without credentials a
// mock payload is returned.
func (c *Client) UserInfo(ctx context.Context, channel string) (*User, error) {
	if !c.configured() {
		return mockUser(channel), nil
	}

	var payload struct {
		Data []User `json:"data"`
	}
	if err := c.get(ctx, "/users?login="+url.QueryEscape(channel), &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	return &payload.Data[0], nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("twitch API request failed", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("twitch API error: HTTP %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func mockStream(channel string) *Stream {
	return &Stream{
		ID:          "mock-stream-id",
		UserID:      "mock-user-id",
		UserName:    channel,
		UserLogin:   strings.ToLower(channel),
		GameName:    "Just Chatting",
		Type:        "live",
		Title:       channel + " is live! Come hang out!",
		ViewerCount: 1337,
		StartedAt:   time.Now().UTC().Format(time.RFC3339),
		Language:    "en",
		ThumbnailURL: "https://static-cdn.jtvnw.net/jtv_user_pictures/" +
			channel + "-profile_image-70x70.png",
	}
}

func mockUser(channel string) *User {
	return &User{
		ID:          "mock-user-id",
		Login:       strings.ToLower(channel),
		DisplayName: channel,
		Type:        "user",
		Description: "Welcome to my stream!",
		ProfileImageURL: "https://static-cdn.jtvnw.net/jtv_user_pictures/" +
			channel + "-profile_image-70x70.png",
		ViewCount: 424242,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
