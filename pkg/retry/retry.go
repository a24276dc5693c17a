// Package retry runs store reads under a bounded retry policy with linear backoff.
// Only errors tagged transient by storeerr are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"church-admin-go/pkg/storeerr"
)

const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 250 * time.Millisecond
)

// Policy retries up to MaxRetries extra times, waiting BaseDelay*n before retry n.
// AttemptTimeout bounds a single attempt; an attempt that times out while the
// caller is still waiting counts as transient. Sleep replaces the context-aware
// timer between attempts when set.
type Policy struct {
	MaxRetries     int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
	OnRetry        func(op string, attempt int, err error)
	Sleep          func(ctx context.Context, d time.Duration) error
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// ExhaustedError is returned once every attempt failed with a transient error,
// or the caller gave up while a retry was pending.
type ExhaustedError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

func Do[T any](ctx context.Context, p Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = wait
	}

	attempts := 0
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if p.OnRetry != nil {
				p.OnRetry(op, attempt, lastErr)
			}
			if err := sleep(ctx, p.BaseDelay*time.Duration(attempt)); err != nil {
				break
			}
		}

		attempts++
		result, err := runAttempt(ctx, p.AttemptTimeout, op, fn)
		if err == nil {
			return result, nil
		}
		if !storeerr.IsTransient(err) {
			return zero, err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return zero, &ExhaustedError{Op: op, Attempts: attempts, Err: lastErr}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := fn(attemptCtx)
	if err != nil && attemptCtx.Err() != nil && ctx.Err() == nil {
		return result, storeerr.Transient(op, err)
	}
	return result, err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
