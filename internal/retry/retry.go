// Package retry wraps remote-store operations with bounded
// retry-with-backoff. Only transient faults (connection failures, timeouts,
// overloaded-server responses) are retried; everything else propagates
// immediately. The original error is always returned after exhaustion.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

// Policy bounds the retry loop
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int

	// BaseDelay is the wait before the first retry; it doubles per attempt
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration
}

// DefaultPolicy returns the store-call policy: 5 attempts, 2s backoff
// doubling up to 10s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// Transient marks errors that are worth retrying. Adapter error types opt in
// by implementing it.
type Transient interface {
	Transient() bool
}

// IsTransient reports whether err is a transient fault. Context
// cancellation is never transient: the caller is going away.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var t Transient
	if errors.As(err, &t) {
		return t.Transient()
	}

	// Raw transport faults (connection refused, dial/read timeouts) arrive
	// as net errors wrapped by the HTTP client.
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Do runs fn, retrying transient failures per the policy. Each retry is
// logged with the attempt number and backoff delay. The last error is
// returned unwrapped so callers can still classify it.
func Do(ctx context.Context, logger *slog.Logger, policy Policy, op string, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	delay := policy.BaseDelay
	var err error

	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= policy.MaxAttempts || !IsTransient(err) {
			return err
		}

		logger.Warn("transient failure, retrying",
			"op", op,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"backoff", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
}
