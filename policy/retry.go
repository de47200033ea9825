package policy

import (
	"context"
	"time"
)

// RetryEvent describes a failed attempt that is about to be retried.
type RetryEvent struct {
	// Attempt is the 1-based index of the attempt that failed.
	Attempt int
	// Delay is how long Retry waits before the next attempt.
	Delay time.Duration
	// Err is the error returned by the attempt.
	Err error
}

// RetryPolicy configures Retry.
type RetryPolicy struct {
	// MaxAttempts is the number of retries after the first attempt.
	// Zero means the operation runs exactly once.
	MaxAttempts uint
	// Delay is the constant wait between two attempts.
	Delay time.Duration
	// OnRetry, if not nil, is called after every failed attempt that
	// will be retried, before waiting.
	OnRetry func(RetryEvent)
}

// Retry runs op until it succeeds or MaxAttempts+1 attempts have
// failed, waiting Delay between attempts. Attempts are strictly
// sequential.
//
// It returns nil on success, an *ExhaustedError when every attempt
// failed, or a *CancelledError as soon as ctx is done, whether that
// happens during an attempt or while waiting.
func Retry(ctx context.Context, p RetryPolicy, op Operation) error {
	total := int(p.MaxAttempts) + 1
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return &CancelledError{Attempts: attempt - 1, Err: err}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return &CancelledError{Attempts: attempt, Err: ctx.Err()}
		}
		if attempt >= total {
			return &ExhaustedError{Attempts: attempt, Err: err}
		}

		if p.OnRetry != nil {
			p.OnRetry(RetryEvent{Attempt: attempt, Delay: p.Delay, Err: err})
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return &CancelledError{Attempts: attempt, Err: err}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
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
