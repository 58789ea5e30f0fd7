package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError reports a 429 from the backend. RetryAfter carries
// the server's requested pause when it sent one.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// BackendError reports an unreachable or failing backend. Status is
// the HTTP status when one was received, zero otherwise.
type BackendError struct {
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model backend returned %d: %v", e.Status, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("model backend unavailable: %v", e.Err)
	}
	return "model backend unavailable"
}

func (e *BackendError) Unwrap() error { return e.Err }

// BadReplyError reports a reply that did not parse or did not match
// the requested schema. Body holds the offending reply for diagnosis.
type BadReplyError struct {
	Body json.RawMessage
	Err  error
}

func (e *BadReplyError) Error() string {
	return fmt.Sprintf("unusable model reply: %v", e.Err)
}

func (e *BadReplyError) Unwrap() error { return e.Err }

// TruncatedError reports a reply cut off at the MaxTokens cap. A cut
// reply can never satisfy a schema, so it surfaces as an error rather
// than a partial completion.
type TruncatedError struct {
	Model string
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s reply truncated at the token cap", e.Model)
}

// classifyStatus maps an HTTP status from any backend onto the package
// error kinds. Everything that is not a rate limit counts as a backend
// failure and stays retryable.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &BackendError{Status: status, Err: err}
}
