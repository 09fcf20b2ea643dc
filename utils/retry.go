package utils

import (
	"context"
	"fmt"
	"time"
)

// BackoffFunc returns how long to wait after the given failed attempt (1-based).
type BackoffFunc func(attempt int, base time.Duration) time.Duration

// LinearBackoff waits attempt × base.
func LinearBackoff(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt) * base
}

// ExponentialBackoff waits base, 2×base, 4×base, ...
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

// RetryPolicy holds the parameters for the retry strategy.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
	Backoff        BackoffFunc
}

// Delay returns the wait applied after the given failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	backoff := p.Backoff
	if backoff == nil {
		backoff = LinearBackoff
	}
	return backoff(attempt, p.BaseDelay)
}

// RetryError is returned once every attempt has failed.
type RetryError struct {
	Operation string
	Attempts  int
	Last      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.Last)
}

func (e *RetryError) Unwrap() error {
	return e.Last
}

// RetryCoordinator runs an operation until it succeeds or the policy is exhausted.
// Attempts are strictly sequential.
type RetryCoordinator struct {
	Policy RetryPolicy
	Logger *Logger
}

// NewRetryCoordinator creates a coordinator for the given policy.
func NewRetryCoordinator(policy RetryPolicy, logger *Logger) *RetryCoordinator {
	return &RetryCoordinator{Policy: policy, Logger: logger}
}

// Do executes fn with bounded retries. Each attempt gets its own context, bounded by
// the policy's AttemptTimeout, which is cancelled before the next attempt starts.
func (r *RetryCoordinator) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	maxAttempts := r.Policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		lastErr = r.attempt(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		delay := r.Policy.Delay(attempt)
		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operation, attempt, maxAttempts, lastErr, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			break
		}
	}

	return &RetryError{Operation: operation, Attempts: attempts, Last: lastErr}
}

func (r *RetryCoordinator) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	attemptCtx := ctx
	if r.Policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, r.Policy.AttemptTimeout)
		defer cancel()
	}
	return fn(attemptCtx)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
