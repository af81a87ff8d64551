// internal/interpreter/interpreter.go
package interpreter

import (
	"context"
	"io"
	"log/slog"

	"github.com/tamzrod/serial-relay/internal/command"
	"github.com/tamzrod/serial-relay/internal/metrics"
)

// Actuators is what dispatch drives. Both calls block until done.
type Actuators interface {
	Move(steps uint16, dir command.Direction)
	SetIndicator(on bool)
}

// Interpreter is the controller main loop.
// One command at a time: while a command executes the buffer stays
// ready and reception stays disarmed.
type Interpreter struct {
	buf *Buffer
	act Actuators
	out io.Writer
	log *slog.Logger
	met *metrics.Controller

	lastDropped uint64
}

func New(buf *Buffer, act Actuators, out io.Writer, log *slog.Logger, met *metrics.Controller) *Interpreter {
	if log == nil {
		log = slog.Default()
	}
	return &Interpreter{
		buf: buf,
		act: act,
		out: out,
		log: log,
		met: met,
	}
}

// Run waits for complete lines and dispatches them until ctx is done.
func (it *Interpreter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-it.buf.Notify():
		}

		// The flag is authoritative; the notify token is only a wakeup.
		if !it.buf.Ready() {
			continue
		}

		it.consume()
	}
}

// consume handles the pending line and re-arms reception.
func (it *Interpreter) consume() {
	line := it.buf.Line()

	if it.buf.Truncated() {
		dropped := it.buf.Dropped()
		it.log.Warn("command line truncated",
			"kept", len(line),
			"dropped", dropped-it.lastDropped,
		)
		it.met.Overflow(dropped - it.lastDropped)
		it.met.Command(metrics.ResultTruncated)
		it.lastDropped = dropped
	}

	resp, ok := it.Execute(line)
	if ok {
		if _, err := io.WriteString(it.out, resp); err != nil {
			it.log.Error("response write failed", "err", err)
		}
	}

	it.buf.Reset()
}

// Execute parses and dispatches one line synchronously.
// It returns the response line and whether one must be sent.
// Empty lines produce no response.
func (it *Interpreter) Execute(line string) (string, bool) {
	cmd := command.Parse(line)

	switch cmd.Kind {
	case command.KindEmpty:
		return "", false

	case command.KindMoveMotor:
		it.log.Info("motor", "steps", cmd.Steps, "dir", cmd.Direction.String())
		it.act.Move(cmd.Steps, cmd.Direction)
		it.met.Command(metrics.ResultOK)
		return command.RespMotorOK, true

	case command.KindSetIndicator:
		it.log.Info("led", "on", cmd.On)
		it.act.SetIndicator(cmd.On)
		it.met.Command(metrics.ResultOK)
		return command.RespLEDOK, true

	default:
		it.log.Warn("rejected command", "line", line, "reason", reasonLabel(cmd.Reason))
		it.met.Command(reasonLabel(cmd.Reason))
		return command.ErrorResponse(cmd.Reason), true
	}
}

func reasonLabel(r command.Reason) string {
	switch r {
	case command.ReasonBadMotor:
		return metrics.ResultBadMotor
	case command.ReasonBadLED:
		return metrics.ResultBadLED
	default:
		return metrics.ResultUnknown
	}
}
