// internal/interpreter/buffer.go
package interpreter

import (
	"context"
	"sync/atomic"
)

// Buffer is the single-slot command mailbox between the reception
// context (OnByte) and the main loop (Line/Reset).
//
// Ownership rule:
//   - while ready is false, only the reception context touches buf/n
//   - while ready is true, only the main loop touches buf/n
//
// The atomic ready flag is the hand-off. No locks.
type Buffer struct {
	buf []byte
	n   int

	ready     atomic.Bool
	truncated atomic.Bool
	dropped   atomic.Uint64

	notify chan struct{} // line ready, cap 1
	rearm  chan struct{} // reception re-armed, cap 1
}

// NewBuffer creates a buffer of the given capacity.
// At most capacity-1 bytes of a line are kept.
func NewBuffer(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	return &Buffer{
		buf:    make([]byte, capacity-1),
		notify: make(chan struct{}, 1),
		rearm:  make(chan struct{}, 1),
	}
}

// Capacity returns the configured capacity (max line length + 1).
func (b *Buffer) Capacity() int {
	return len(b.buf) + 1
}

// OnByte accumulates one received byte. O(1), never blocks.
// Returns true while reception stays armed; false once a complete line
// is waiting for the main loop.
func (b *Buffer) OnByte(c byte) bool {
	if b.ready.Load() {
		// Not armed. The pump must wait for Reset before feeding more.
		return false
	}

	if c == '\n' || c == '\r' {
		b.ready.Store(true)
		signal(b.notify)
		return false
	}

	if b.n < len(b.buf) {
		b.buf[b.n] = c
		b.n++
	} else {
		b.truncated.Store(true)
		b.dropped.Add(1)
	}
	return true
}

// Ready reports whether a complete line awaits dispatch.
func (b *Buffer) Ready() bool {
	return b.ready.Load()
}

// Line returns the pending line without its terminator.
// Only valid while Ready() is true.
func (b *Buffer) Line() string {
	if !b.ready.Load() {
		return ""
	}
	return string(b.buf[:b.n])
}

// Truncated reports whether bytes of the pending line were dropped.
func (b *Buffer) Truncated() bool {
	return b.truncated.Load()
}

// Dropped returns the total number of overflow bytes dropped.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}

// Reset clears the consumed line and re-arms reception.
// Called by the main loop only.
func (b *Buffer) Reset() {
	wasReady := b.ready.Load()

	b.n = 0
	b.truncated.Store(false)
	b.ready.Store(false)

	if wasReady {
		signal(b.rearm)
	}
}

// Notify fires (at most one pending token) when a line becomes ready.
func (b *Buffer) Notify() <-chan struct{} {
	return b.notify
}

// WaitArmed blocks until reception is armed again or ctx is done.
func (b *Buffer) WaitArmed(ctx context.Context) error {
	for b.ready.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.rearm:
		}
	}
	return nil
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
