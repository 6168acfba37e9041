// Package guard wraps fallible external calls with a shared rate budget and
// bounded retry-with-backoff. One Gate is built per run and passed to every
// stage that talks to the outside world; the budget it enforces is global
// across all concurrent chains.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// Retryable marks an error as transient so Gate.Do will retry it.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err carries the transient marker anywhere in
// its chain.
func IsRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

// Gate combines a blocking per-minute call budget with exponential retry.
// Calls over budget wait for a token, they are never rejected.
type Gate struct {
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
}

// NewGate sizes the budget in calls per minute. maxRetries counts retries
// after the first attempt; backoffBase doubles per attempt.
func NewGate(maxPerMinute, maxRetries int, backoffBase time.Duration) *Gate {
	if maxPerMinute < 1 {
		maxPerMinute = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Gate{
		limiter:     rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), 1),
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
	}
}

// Do runs fn under the rate budget, retrying transient failures up to the
// configured budget. Non-retryable errors propagate immediately without
// consuming retries. Every attempt, including retries, waits for a token
// first.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= g.maxRetries {
			return fmt.Errorf("retry budget exhausted after %d attempts: %w", attempt+1, err)
		}

		delay := g.backoffBase << attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
