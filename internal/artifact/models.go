// Package artifact provides the durable storage index for persisted
// export deliverables. Bytes live in the storage directory; this package
// records what is there so large artifacts can be served by URL.
package artifact

import "time"

// Record describes one persisted artifact.
type Record struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
