package cache

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

// Sentinel errors for cache backends.
var (
	// ErrCacheMiss is returned by helpers that turn a miss into an error.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable is returned when a backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// transient classifies network-level failures from the Redis and Mongo
// drivers, which surface as net.Error or ECONNREFUSED.
func transient(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return Retryable(err)
	}
	return err
}

// retryDelay is the first backoff step of RetryWithBackoff.
var retryDelay = 250 * time.Millisecond

// RetryWithBackoff calls fn up to 3 times, doubling the delay between
// attempts. Only errors wrapped with Retryable are retried.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
