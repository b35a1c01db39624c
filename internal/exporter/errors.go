package exporter

import "fmt"

// Category is a stable, machine-checkable failure class. Stage failures
// are always wrapped in a StageError carrying one of these.
type Category string

const (
	// CategoryToolMissing means a required external tool is not installed.
	CategoryToolMissing Category = "TOOL_MISSING"
	// CategoryFetchFailed means the downloader exited non-zero and
	// produced no usable output file.
	CategoryFetchFailed Category = "FETCH_FAILED"
	// CategoryFetchTimeout means the fetch exceeded its wall-clock budget.
	CategoryFetchTimeout Category = "FETCH_TIMEOUT"
	// CategoryTranscodeFailed means the media processor failed at any sub-step.
	CategoryTranscodeFailed Category = "TRANSCODE_FAILED"
	// CategoryEmptyOutput means a stage's output file exists but has zero bytes.
	CategoryEmptyOutput Category = "EMPTY_OUTPUT"
)

// StageError is the uniform failure type surfaced by the pipeline. Detail
// holds the raw tool diagnostics for operator debugging.
type StageError struct {
	Category Category
	Detail   string
	Err      error
}

func (e *StageError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Category, e.Detail)
	}
	return string(e.Category)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErrorf(cat Category, format string, args ...interface{}) *StageError {
	return &StageError{Category: cat, Detail: fmt.Sprintf(format, args...)}
}
