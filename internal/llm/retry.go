package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig bounds the retry loop. Delays double per attempt up to
// MaxDelay, with jitter.
type RetryConfig struct {
	// Attempts is the total number of calls, first try included.
	Attempts int

	// BaseDelay is the pause before the second attempt.
	BaseDelay time.Duration

	// MaxDelay caps the growing pause.
	MaxDelay time.Duration
}

type retryClient struct {
	inner Client
	cfg   RetryConfig
}

// WithRetry wraps a client so transient failures are retried. Rate
// limits and backend failures retry with backoff; a bad reply retries
// exactly once (a second identical failure means the prompt, not the
// network, is the problem); truncation and context errors never retry.
func WithRetry(c Client, cfg RetryConfig) Client {
	return &retryClient{inner: c, cfg: cfg}
}

func (r *retryClient) Model() string { return r.inner.Model() }

func (r *retryClient) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	badReplies := 0
	for attempt := 0; ; attempt++ {
		reply, err := r.inner.Complete(ctx, p)
		if err == nil {
			return reply, nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var trunc *TruncatedError
		if errors.As(err, &trunc) {
			return nil, err
		}
		var bad *BadReplyError
		if errors.As(err, &bad) {
			badReplies++
			if badReplies > 1 {
				return nil, err
			}
		}
		if attempt+1 >= r.cfg.Attempts {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.delay(attempt, err)):
		}
	}
}

// delay is the pause after a failed attempt. A server-sent RetryAfter
// wins over the computed backoff.
func (r *retryClient) delay(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := r.cfg.BaseDelay << attempt
	if d <= 0 || d > r.cfg.MaxDelay {
		d = r.cfg.MaxDelay
	}
	// 20% jitter keeps concurrent generators out of lockstep.
	return time.Duration(float64(d) * (0.8 + 0.4*rand.Float64()))
}
