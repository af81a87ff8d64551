// internal/supervisor/runner.go
package supervisor

import (
	"context"
	"time"
)

const defaultInterval = 10 * time.Millisecond

// Run loops Tick until ctx is done. One goroutine. No overlap.
// Ticks missed while reconnecting are dropped, not queued.
func (s *Supervisor) Run(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
