// Package analysis is the client for the external vision-language
// analysis service. The export pipeline never talks to it; it only
// supplies the stream URLs and time windows that feed export requests.
package analysis

// CheckOnceRequest asks the service whether a condition currently holds
// in the stream.
type CheckOnceRequest struct {
	YouTubeURL   string `json:"youtube_url"`
	Condition    string `json:"condition"`
	Model        string `json:"model,omitempty"`
	IncludeFrame bool   `json:"include_frame"`
}

type CheckOnceResponse struct {
	Triggered   bool    `json:"triggered"`
	Explanation string  `json:"explanation"`
	Model       string  `json:"model"`
	FrameB64    *string `json:"frame_b64,omitempty"`
}

// MonitorRequest starts continuous monitoring of a stream.
type MonitorRequest struct {
	YouTubeURL      string `json:"youtube_url"`
	Condition       string `json:"condition"`
	Model           string `json:"model,omitempty"`
	IntervalSeconds int    `json:"interval_seconds,omitempty"`
}

// MonitorJob is one continuous-monitoring job on the service.
type MonitorJob struct {
	ID         string `json:"id"`
	YouTubeURL string `json:"youtube_url"`
	Condition  string `json:"condition"`
	Status     string `json:"status"` // running, stopped, error
	CreatedAt  string `json:"created_at"`
}

// Moment is a detection produced by a monitoring job.
type Moment struct {
	ID        string  `json:"id"`
	JobID     string  `json:"job_id"`
	Timestamp string  `json:"timestamp"`
	Result    string  `json:"result"`
	Score     float64 `json:"score"`
	Frame     string  `json:"frame,omitempty"`
}

const DefaultModel = "gemini-2.5-flash"
