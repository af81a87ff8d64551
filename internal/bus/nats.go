// internal/bus/nats.go
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATS is a Session over a NATS server. The topic is used as subject.
type NATS struct {
	opts  Options
	inbox *inbox
	log   *slog.Logger

	mu      sync.Mutex
	conn    *nats.Conn
	sub     *nats.Subscription
	handler Handler
}

// NewNATS prepares a NATS session. No network activity.
func NewNATS(o Options) (*NATS, error) {
	if o.URL == "" {
		return nil, errors.New("bus nats: url required")
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return &NATS{
		opts:  o,
		inbox: newInbox(o.InboxSize, o.Log, o.Metrics),
		log:   o.Log,
	}, nil
}

func (s *NATS) connOptions() ([]nats.Option, error) {
	opts := []nats.Option{
		nats.Name(s.opts.ClientID),
		nats.NoReconnect(),
		nats.Timeout(s.opts.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			s.log.Warn("nats disconnected", "err", err)
		}),
	}

	if s.opts.Keepalive > 0 {
		opts = append(opts, nats.PingInterval(s.opts.Keepalive))
	}
	if s.opts.Username != "" {
		opts = append(opts, nats.UserInfo(s.opts.Username, s.opts.Password))
	}
	if s.opts.CAFile != "" {
		tc, err := tlsConfig(s.opts.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nats.Secure(tc))
	}
	return opts, nil
}

// Connect makes one connection attempt, discarding any dead connection.
func (s *NATS) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts, err := s.connOptions()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.sub = nil
	}
	s.mu.Unlock()

	nc, err := nats.Connect(s.opts.URL, opts...)
	if err != nil {
		return fmt.Errorf("bus nats: connect %s: %w", s.opts.URL, err)
	}

	s.mu.Lock()
	s.conn = nc
	s.mu.Unlock()
	return nil
}

// Subscribe registers the single subject. Deliveries are queued, not run.
func (s *NATS) Subscribe(topic string, h Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.conn.IsConnected() {
		return ErrNotConnected
	}

	sub, err := s.conn.Subscribe(topic, func(m *nats.Msg) {
		s.inbox.push(m.Subject, m.Data)
	})
	if err != nil {
		return fmt.Errorf("bus nats: subscribe %s: %w", topic, err)
	}
	if err := s.conn.FlushTimeout(s.opts.Timeout); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("bus nats: subscribe %s: %w", topic, err)
	}

	s.sub = sub
	s.handler = h
	return nil
}

// Publish sends on the subject and flushes so a dead server surfaces here.
func (s *NATS) Publish(topic string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.conn.IsConnected() {
		return ErrNotConnected
	}
	if err := s.conn.Publish(topic, payload); err != nil {
		return fmt.Errorf("bus nats: publish %s: %w", topic, err)
	}
	if err := s.conn.FlushTimeout(s.opts.Timeout); err != nil {
		return fmt.Errorf("bus nats: publish %s: %w", topic, err)
	}
	return nil
}

func (s *NATS) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.IsConnected()
}

// Service delivers queued messages to the subscribed handler.
func (s *NATS) Service(ctx context.Context) int {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()

	return s.inbox.drain(ctx, h)
}

func (s *NATS) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.sub = nil
	}
}
