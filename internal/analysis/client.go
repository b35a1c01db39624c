package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// APIError represents a non-2xx response from the analysis service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client is the analysis-service surface the route layer consumes.
type Client interface {
	CheckOnce(ctx context.Context, req CheckOnceRequest) (*CheckOnceResponse, error)
	StartMonitor(ctx context.Context, req MonitorRequest) (*MonitorJob, error)
	Jobs(ctx context.Context) ([]MonitorJob, error)
	Moments(ctx context.Context, jobID string) ([]Moment, error)
	StopMonitor(ctx context.Context, jobID string) error
}

// HTTPClient talks to the real analysis service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (c *HTTPClient) CheckOnce(ctx context.Context, req CheckOnceRequest) (*CheckOnceResponse, error) {
	if req.Model == "" {
		req.Model = DefaultModel
	}
	var resp CheckOnceResponse
	if err := c.post(ctx, "/check-once", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) StartMonitor(ctx context.Context, req MonitorRequest) (*MonitorJob, error) {
	if req.Model == "" {
		req.Model = DefaultModel
	}
	if req.IntervalSeconds <= 0 {
		req.IntervalSeconds = 30
	}
	var job MonitorJob
	if err := c.post(ctx, "/live-monitor", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) Jobs(ctx context.Context) ([]MonitorJob, error) {
	var jobs []MonitorJob
	if err := c.get(ctx, "/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *HTTPClient) Moments(ctx context.Context, jobID string) ([]Moment, error) {
	var moments []Moment
	if err := c.get(ctx, "/moments?job_id="+url.QueryEscape(jobID), &moments); err != nil {
		return nil, err
	}
	return moments, nil
}

func (c *HTTPClient) StopMonitor(ctx context.Context, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("analysis API request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
