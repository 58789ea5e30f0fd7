package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
	}
}

func TestRetryFirstTrySucceeds(t *testing.T) {
	mock := NewMock(Reply{Body: json.RawMessage(`{"ok":true}`)})
	c := WithRetry(mock, fastRetry())

	reply, err := c.Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reply.Body) != `{"ok":true}` {
		t.Fatalf("body = %s", reply.Body)
	}
	if mock.Calls() != 1 {
		t.Fatalf("calls = %d", mock.Calls())
	}
}

func TestRetryBackendFailureThenSuccess(t *testing.T) {
	mock := NewMock(
		Reply{Err: &BackendError{Err: errors.New("down")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	reply, err := c.Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reply.Body) != `{"ok":true}` {
		t.Fatalf("body = %s", reply.Body)
	}
	if mock.Calls() != 2 {
		t.Fatalf("calls = %d", mock.Calls())
	}
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	mock := NewMock(
		Reply{Err: &BackendError{Err: errors.New("down")}},
		Reply{Err: &BackendError{Err: errors.New("down")}},
		Reply{Err: &BackendError{Err: errors.New("down")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	_, err := c.Complete(context.Background(), Prompt{})
	if err == nil {
		t.Fatal("want error after exhausting attempts")
	}
	if mock.Calls() != 3 {
		t.Fatalf("calls = %d", mock.Calls())
	}
}

func TestRetryTruncationNotRetried(t *testing.T) {
	mock := NewMock(Reply{Err: &TruncatedError{Model: "mock"}})
	c := WithRetry(mock, fastRetry())

	_, err := c.Complete(context.Background(), Prompt{})
	var trunc *TruncatedError
	if !errors.As(err, &trunc) {
		t.Fatalf("want TruncatedError, got %T", err)
	}
	if mock.Calls() != 1 {
		t.Fatalf("calls = %d, truncation must not retry", mock.Calls())
	}
}

func TestRetryBadReplyRetriedOnce(t *testing.T) {
	mock := NewMock(
		Reply{Err: &BadReplyError{Err: errors.New("not JSON")}},
		Reply{Err: &BadReplyError{Err: errors.New("not JSON")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	_, err := c.Complete(context.Background(), Prompt{})
	var bad *BadReplyError
	if !errors.As(err, &bad) {
		t.Fatalf("want BadReplyError, got %T", err)
	}
	if mock.Calls() != 2 {
		t.Fatalf("calls = %d, bad reply retries exactly once", mock.Calls())
	}
}

func TestRetryBadReplyThenSuccess(t *testing.T) {
	mock := NewMock(
		Reply{Err: &BadReplyError{Err: errors.New("not JSON")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	reply, err := c.Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reply.Body) != `{"ok":true}` {
		t.Fatalf("body = %s", reply.Body)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMock(
		Reply{Err: &RateLimitError{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	started := time.Now()
	_, err := c.Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(started); elapsed < time.Millisecond {
		t.Fatalf("returned after %s, want at least the RetryAfter pause", elapsed)
	}
	if mock.Calls() != 2 {
		t.Fatalf("calls = %d", mock.Calls())
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	mock := NewMock(
		Reply{Err: &BackendError{Err: errors.New("down")}},
		Reply{Body: json.RawMessage(`{"ok":true}`)},
	)
	c := WithRetry(mock, fastRetry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, Prompt{})
	if err == nil {
		t.Fatal("want error from cancelled context")
	}
}

func TestRetryModelDelegates(t *testing.T) {
	c := WithRetry(NewMock(), fastRetry())
	if c.Model() != "mock" {
		t.Fatalf("Model() = %q", c.Model())
	}
}
