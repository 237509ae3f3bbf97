package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a backend that could not be reached or timed out.
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is the retry policy of a remote cache. A tile upload falls back
// to building the tile itself when the cache fails, so the policy gives up
// quickly rather than stall the upload.
type Backoff struct {
	Attempts int           // total tries, including the first
	Initial  time.Duration // wait after the first failure
	Max      time.Duration // cap for the doubling wait
}

// DefaultBackoff tries three times, waiting 20ms and then 40ms.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 20 * time.Millisecond, Max: 200 * time.Millisecond}

// Do calls fn until it succeeds, returns an error that is not retryable, or
// the attempts run out. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	if b.Attempts <= 0 {
		b = DefaultBackoff
	}
	wait := b.Initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if wait *= 2; b.Max > 0 && wait > b.Max {
			wait = b.Max
		}
	}
}
