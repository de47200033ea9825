package policy

import (
	"context"
	"errors"
	"time"
)

// Deadline bounds a single run of an Operation.
type Deadline struct {
	// Timeout is the time budget of one run. Zero disables the deadline.
	Timeout time.Duration
	// OnTimeout, if not nil, is called when a run exceeds Timeout.
	OnTimeout func(timeout, elapsed time.Duration)
}

// Wrap returns an Operation that runs op with a context whose deadline
// is Timeout from now. When the deadline elapses first, the returned
// Operation fails with a *TimeoutError without waiting for op, so even
// an operation that ignores its context cannot hold the caller longer
// than Timeout. Cancellation of the parent context is passed through
// unchanged and is never reported as a timeout.
func (d Deadline) Wrap(op Operation) Operation {
	if d.Timeout <= 0 {
		return op
	}

	return func(ctx context.Context) error {
		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, d.Timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- op(attemptCtx)
		}()

		var err error
		select {
		case err = <-done:
			if err == nil {
				return nil
			}
		case <-attemptCtx.Done():
			err = attemptCtx.Err()
		}

		if ctx.Err() != nil {
			return err
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			elapsed := time.Since(start)
			if d.OnTimeout != nil {
				d.OnTimeout(d.Timeout, elapsed)
			}
			return &TimeoutError{Timeout: d.Timeout, Elapsed: elapsed}
		}
		return err
	}
}
