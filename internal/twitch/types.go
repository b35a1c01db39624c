// Package twitch looks up stream and user metadata on the Twitch Helix
// API. Without credentials it serves deterministic mock payloads, which
// keeps the dashboard usable in local development.
package twitch

// Stream is a live stream as reported by the Helix streams endpoint.
type Stream struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserLogin    string `json:"user_login"`
	GameID       string `json:"game_id"`
	GameName     string `json:"game_name"`
	Type         string `json:"type"` // "live" or ""
	Title        string `json:"title"`
	ViewerCount  int    `json:"viewer_count"`
	StartedAt    string `json:"started_at"`
	Language     string `json:"language"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsMature     bool   `json:"is_mature"`
}

// User is a Twitch account as reported by the Helix users endpoint.
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Type            string `json:"type"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	OfflineImageURL string `json:"offline_image_url"`
	ViewCount       int    `json:"view_count"`
	CreatedAt       string `json:"created_at"`
}
