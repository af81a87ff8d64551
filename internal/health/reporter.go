// internal/health/reporter.go
package health

import (
	"log/slog"
	"time"

	"github.com/tamzrod/serial-relay/internal/status"
	"github.com/tamzrod/serial-relay/internal/supervisor"
)

// Period is the reporting cadence.
const Period = time.Second

// SnapshotWriter delivers one snapshot.
type SnapshotWriter interface {
	WriteStatus(s status.Snapshot) error
}

// Reporter is a supervisor duty that turns connection state into a
// status snapshot once per Period and hands it to a writer.
// Runs on the supervisor loop goroutine only.
type Reporter struct {
	w   SnapshotWriter
	log *slog.Logger

	last       time.Time
	errorSince time.Time
	inError    bool
	writeFail  bool
	current    status.Snapshot
}

// NewReporter creates a reporter. A nil writer only tracks the snapshot.
func NewReporter(w SnapshotWriter, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{w: w, log: log}
}

// Tick implements supervisor.Duty.
func (r *Reporter) Tick(now time.Time, st supervisor.State) {
	if !r.last.IsZero() && now.Sub(r.last) < Period {
		return
	}
	r.last = now

	up := st.Up()
	var secs uint16
	switch {
	case up:
		r.inError = false
	case !r.inError:
		r.inError = true
		r.errorSince = now
	default:
		secs = saturate(now.Sub(r.errorSince))
	}

	r.current = status.Derive(st.Network == supervisor.Connected, st.Bus == supervisor.Connected, secs)

	if r.w == nil {
		return
	}
	if err := r.w.WriteStatus(r.current); err != nil {
		if !r.writeFail {
			r.log.Warn("status write failed", "err", err)
		}
		r.writeFail = true
		return
	}
	if r.writeFail {
		r.log.Info("status write recovered")
	}
	r.writeFail = false
}

// Snapshot returns the last computed snapshot.
func (r *Reporter) Snapshot() status.Snapshot {
	return r.current
}

func saturate(d time.Duration) uint16 {
	s := int64(d / time.Second)
	if s > int64(status.MaxSecondsInError) {
		return status.MaxSecondsInError
	}
	if s < 0 {
		return 0
	}
	return uint16(s)
}
