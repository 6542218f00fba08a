package llm

import (
	"context"
	"time"
)

// RetryPolicy wraps a provider call with bounded exponential backoff.
// Only transient failures (rate limit, overload, network) are retried;
// everything else propagates immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the conversion pipeline's contract:
// three attempts, 2s base delay, doubling each attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Do invokes fn up to MaxAttempts times. The delay before each retry
// doubles. The last error is returned once attempts are exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func() (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay
	sleep := p.sleep
	if sleep == nil {
		sleep = waitFor
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
			delay *= 2
		}
	}
	return "", lastErr
}

func waitFor(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
