// Package retry runs an operation a bounded number of times with a fixed
// delay schedule.
package retry

import (
	"context"
	"time"
)

// Policy describes how often and when to try again.
type Policy struct {
	// Attempts is the maximum number of calls, including the first.
	Attempts int
	// Delays[i] is waited before attempt i. Missing entries reuse the last
	// delay; an empty schedule means no waiting.
	Delays []time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// Retryable retries every error.
	Retryable func(error) bool
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnAttempt is called before each attempt with its 1-based number.
	OnAttempt func(n int)
}

// Linear returns a schedule of n delays: 0, step, 2*step, ...
func Linear(n int, step time.Duration) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i) * step
	}
	return out
}

func (p Policy) delay(i int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if i < len(p.Delays) {
		return p.Delays[i]
	}
	return p.Delays[len(p.Delays)-1]
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

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. It returns the last result and error, and how many
// attempts were made. A cancelled ctx stops the loop with ctx's error.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, int, error) {
	var (
		zero T
		last error
	)
	attempts := max(p.Attempts, 1)
	wait := p.Sleep
	if wait == nil {
		wait = sleep
	}

	for i := 0; i < attempts; i++ {
		if err := wait(ctx, p.delay(i)); err != nil {
			return zero, i, err
		}
		if p.OnAttempt != nil {
			p.OnAttempt(i + 1)
		}

		v, err := fn(ctx)
		if err == nil {
			return v, i + 1, nil
		}
		last = err
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, i + 1, err
		}
	}
	return zero, attempts, last
}
