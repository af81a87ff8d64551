// internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recSleep struct {
	waits []time.Duration
}

func (r *recSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	rs := &recSleep{}
	calls := 0

	err := Do(context.Background(), Policy{Attempts: 10, Delay: 500 * time.Millisecond}, rs.sleep,
		func(attempt int) error {
			calls++
			assert.Equal(t, calls, attempt)
			if attempt <= 5 {
				return errors.New("not yet")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 6, calls)
	// Fixed delay, one wait between consecutive attempts.
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond,
		500 * time.Millisecond, 500 * time.Millisecond,
	}, rs.waits)
}

func TestDo_Exhausted(t *testing.T) {
	rs := &recSleep{}
	boom := errors.New("boom")
	calls := 0

	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Second}, rs.sleep,
		func(int) error {
			calls++
			return boom
		})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Len(t, rs.waits, 2)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{}, nil, func(int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := Do(ctx, Policy{Attempts: 5, Delay: time.Hour}, nil, func(int) error {
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
