// Package policy provides the two combinators a resilient publish is made
// of: Retry, which re-runs an Operation a bounded number of times with a
// constant delay, and Deadline, which bounds a single run of an Operation.
//
// They are meant to be composed with the deadline inside the retry, so
// that every attempt gets a fresh time budget:
//
//	err := policy.Retry(ctx, retryPolicy, policy.Deadline{Timeout: 5 * time.Second}.Wrap(send))
package policy

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Operation is a unit of work that can be retried or bounded in time.
// It should abort as soon as possible when ctx is done.
type Operation func(ctx context.Context) error

// ErrTimeout is matched by every TimeoutError.
var ErrTimeout = errors.New("attempt timed out")

// TimeoutError is returned by an Operation wrapped with Deadline when
// the deadline elapses before the operation completes.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("attempt timed out after %v", e.Timeout)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ExhaustedError is returned by Retry when every attempt failed.
// Err holds the error of the last attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// CancelledError is returned by Retry when the caller context is done
// before an attempt succeeds. Attempts is the number of attempts that
// were started.
type CancelledError struct {
	Attempts int
	Err      error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}
