// internal/retry/retry.go

// Package retry runs an operation a bounded number of times with a fixed
// pause between attempts.
//
// Unlike exponential schemes the delay never grows: link recovery on the
// gateway is expected to be periodic and predictable. All waits honour
// context cancellation.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every attempt failed.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Policy bounds a retry run.
type Policy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // pause between attempts, not after the last
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
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

// Do calls fn until it succeeds or the policy is exhausted.
// fn receives the 1-based attempt number. sleep may be nil.
// The returned error wraps both ErrExhausted and the last failure.
func Do(ctx context.Context, p Policy, sleep SleepFunc, fn func(attempt int) error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if sleep == nil {
		sleep = Sleep
	}

	var last error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled before attempt %d: %w", attempt, err)
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		last = err

		if attempt == p.Attempts {
			break
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return fmt.Errorf("retry cancelled after attempt %d: %w", attempt, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.Attempts, last)
}
