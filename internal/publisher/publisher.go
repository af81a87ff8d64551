// internal/publisher/publisher.go
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tamzrod/serial-relay/internal/command"
	"github.com/tamzrod/serial-relay/internal/retry"
)

var (
	ErrInvalidCommand = errors.New("publisher: invalid command")
	ErrNotConnected   = errors.New("publisher: not connected")
)

// Session is the part of a bus session the publisher needs.
// bus.Session satisfies it.
type Session interface {
	Connect(ctx context.Context) error
	Publish(topic string, payload []byte) error
	Connected() bool
}

type Config struct {
	Topic string
	Retry retry.Policy
}

// Publisher validates operator input and publishes it to one topic.
// Only canonical command lines ever reach the bus.
type Publisher struct {
	cfg   Config
	sess  Session
	log   *slog.Logger
	sleep retry.SleepFunc
}

func New(cfg Config, sess Session, log *slog.Logger) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("publisher: topic required")
	}
	if sess == nil {
		return nil, fmt.Errorf("publisher: session required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{cfg: cfg, sess: sess, log: log, sleep: retry.Sleep}, nil
}

// Prepare normalizes operator input and validates it with the
// controller's own grammar. Keyword and LED state are case-insensitive,
// whitespace around fields is dropped.
func Prepare(input string) (command.Command, error) {
	parts := strings.Split(strings.TrimSpace(input), ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	parts[0] = strings.ToLower(parts[0])
	if parts[0] == "led" && len(parts) == 2 {
		parts[1] = strings.ToLower(parts[1])
	}

	cmd := command.Parse(strings.Join(parts, ":"))
	switch cmd.Kind {
	case command.KindMoveMotor, command.KindSetIndicator:
		return cmd, nil
	case command.KindEmpty:
		return cmd, fmt.Errorf("%w: empty", ErrInvalidCommand)
	}
	return cmd, fmt.Errorf("%w: %s: %q", ErrInvalidCommand, cmd.Reason, input)
}

// Connect opens the session under the retry policy.
func (p *Publisher) Connect(ctx context.Context) error {
	return retry.Do(ctx, p.cfg.Retry, p.sleep, func(attempt int) error {
		err := p.sess.Connect(ctx)
		if err != nil {
			p.log.Warn("bus connect failed",
				"attempt", attempt,
				"of", p.cfg.Retry.Attempts,
				"err", err,
			)
			return err
		}
		p.log.Info("bus connected", "attempt", attempt)
		return nil
	})
}

// Send validates input and publishes its canonical form.
// A dropped session gets ONE reconnect attempt before the publish.
func (p *Publisher) Send(ctx context.Context, input string) (command.Command, error) {
	cmd, err := Prepare(input)
	if err != nil {
		return cmd, err
	}

	if !p.sess.Connected() {
		if err := p.sess.Connect(ctx); err != nil {
			return cmd, fmt.Errorf("%w: %w", ErrNotConnected, err)
		}
		p.log.Info("bus reconnected")
	}

	line := cmd.String()
	if err := p.sess.Publish(p.cfg.Topic, []byte(line)); err != nil {
		return cmd, fmt.Errorf("publisher: publish %q: %w", line, err)
	}

	p.log.Info("published", "topic", p.cfg.Topic, "cmd", line)
	return cmd, nil
}
