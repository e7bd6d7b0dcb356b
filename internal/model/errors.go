package model

import (
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ModelError records a structured-generation output that failed schema
// validation. It aborts query planning, or drops the single job being
// summarized/classified; it is never retried.
type ModelError struct {
	Stage string // "query_plan", "summary" or "relevance"
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model output invalid at %s: %v", e.Stage, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
