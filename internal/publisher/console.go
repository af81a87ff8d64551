// internal/publisher/console.go
package publisher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/serial-relay/internal/command"
)

const Prompt = "> "

const Banner = `============================================================
Command publisher
============================================================

Command examples:
  motor:100:1  - Move motor 100 steps forward
  motor:50:0   - Move motor 50 steps backward
  led:on       - Turn LED on
  led:off      - Turn LED off

Type 'exit' or 'quit' to stop
============================================================
`

// Operator-facing results, one per handled line.
const (
	MsgMotorSent    = "[OK] Motor command sent"
	MsgLEDSent      = "[OK] LED command sent"
	MsgInvalid      = "[ERROR] Invalid command format"
	MsgNotConnected = "[ERROR] Not connected to broker"
	MsgSendFailed   = "[ERROR] Failed to send command"
)

// Run reads one command per line from in until exit, quit, EOF or
// ctx is done. Blank lines are ignored.
func (p *Publisher) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	// Scanner blocks; keep it off the select loop.
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()

	fmt.Fprint(out, Banner)

	for {
		fmt.Fprint(out, Prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				if err := <-errc; err != nil {
					return fmt.Errorf("publisher: read input: %w", err)
				}
				return nil
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "exit", "quit":
				return nil
			}

			fmt.Fprintln(out, p.handle(ctx, line))
		}
	}
}

func (p *Publisher) handle(ctx context.Context, line string) string {
	cmd, err := p.Send(ctx, line)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCommand):
		p.log.Debug("rejected input", "err", err)
		return MsgInvalid
	case errors.Is(err, ErrNotConnected):
		p.log.Error("send failed", "err", err)
		return MsgNotConnected
	default:
		p.log.Error("send failed", "err", err)
		return MsgSendFailed
	}

	if cmd.Kind == command.KindMoveMotor {
		return MsgMotorSent
	}
	return MsgLEDSent
}
