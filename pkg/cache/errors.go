package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend: timeouts, refused
// connections and dropped sockets. Callers treat it as a miss.
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks a transient failure that [retrier] may repeat.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retrier repeats an operation on retryable errors, doubling the delay after
// each failed attempt.
type retrier struct {
	attempts int
	delay    time.Duration
}

// do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned, or ctx.Err() if the context
// ends while waiting.
func (r retrier) do(ctx context.Context, fn func() error) error {
	n, delay := max(r.attempts, 1), r.delay
	var err error
	for i := range n {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == n-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}
