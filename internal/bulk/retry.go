// Package bulk implements the concurrent batch engine behind the bulk_*
// tools: per-item retry with exponential backoff, bounded fan-out, and
// partial-failure aggregation. It has no knowledge of the remote API's
// entities — callers hand it a per-item call and an error classifier.
package bulk

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryConfig defines per-item retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so MaxRetries+1 attempts total.
	MaxRetries int

	// InitialDelay is the sleep before the first retry; each further
	// retry multiplies it by Multiplier, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Retryable decides whether an error is transient. Terminal errors
	// (client errors such as 404 or 422) propagate immediately without
	// consuming retry budget. A nil Retryable retries every error.
	Retryable func(error) bool
}

// DefaultRetryConfig gives delays of roughly 1s, 2s, 4s.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:   3,
	InitialDelay: 1 * time.Second,
	MaxDelay:     16 * time.Second,
	Multiplier:   2.0,
}

// WithRetryable returns a copy of cfg using the given classifier.
func (c RetryConfig) WithRetryable(f func(error) bool) RetryConfig {
	c.Retryable = f
	return c
}

func (c RetryConfig) retryable(err error) bool {
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

func (c RetryConfig) backoff(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	return time.Duration(d)
}

// Retry executes call with automatic retry on transient failure. Each
// invocation is independent; concurrent retries never share state, so a
// slow backoff on one item cannot delay another.
func Retry[T any](ctx context.Context, cfg RetryConfig, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := call(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.retryable(err) {
			// Terminal: a rejected request cannot succeed on retry.
			return zero, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}

	return zero, fmt.Errorf("all %d attempts failed: %w", cfg.MaxRetries+1, lastErr)
}
