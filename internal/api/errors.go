// Package api implements the HTTP client for the Atlas backend.
// This file contains error classification.

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps a failed backend call with enough context to decide
// whether retrying makes sense. Status 0 means the request never got a
// response (dial failure, timeout, cancelled context).
type Error struct {
	Endpoint string // e.g. "GET /deals"
	Status   int
	Body     string // truncated response body, for logs
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure class is worth retrying:
// network-level failures, rate limiting, and server errors.
func (e *Error) Retryable() bool {
	if e.Status == 0 {
		return true
	}
	if e.Status == http.StatusTooManyRequests {
		return true
	}
	return e.Status >= 500
}

// IsRetryable reports whether err is an *Error worth retrying.
func IsRetryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// ErrMalformedResponse marks a 2xx response whose body did not match
// the expected schema. Treated the same as a failed call by callers.
var ErrMalformedResponse = errors.New("malformed response body")
