// internal/supervisor/supervisor.go
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/serial-relay/internal/bus"
	"github.com/tamzrod/serial-relay/internal/metrics"
	"github.com/tamzrod/serial-relay/internal/retry"
)

var (
	// ErrNetworkUnavailable: association attempts exhausted. Recoverable.
	ErrNetworkUnavailable = errors.New("supervisor: network unavailable")

	// ErrBusUnavailable: bus session attempts exhausted. Recoverable.
	ErrBusUnavailable = errors.New("supervisor: bus unavailable")

	// ErrNetworkDown: bus requested while the network is not connected.
	ErrNetworkDown = errors.New("supervisor: network not connected")
)

// NetworkSession is the host network association.
// Associate makes ONE attempt and returns the assigned address.
type NetworkSession interface {
	Associate(ctx context.Context) (string, error)
	Connected() bool
}

// BusSession is the broker session. Connect makes ONE attempt.
// Close drops whatever session is open; the next Connect starts clean.
type BusSession interface {
	Connect(ctx context.Context) error
	Subscribe(topic string, h bus.Handler) error
	Connected() bool
	Service(ctx context.Context) int
	Close()
}

// Duty is periodic work sharing the supervisor loop.
// Tick runs on the loop goroutine and must return promptly.
type Duty interface {
	Tick(now time.Time, st State)
}

// Config is the minimal runtime config the supervisor needs.
type Config struct {
	Network retry.Policy
	Bus     retry.Policy
	Topic   string

	// Interval is the pause between loop iterations.
	Interval time.Duration

	// NetworkCheck throttles the network liveness check.
	// Zero checks on every iteration.
	NetworkCheck time.Duration
}

// Supervisor owns the connection state and keeps both sessions alive.
// All state transitions happen on the goroutine running Tick/Run;
// State may be read from anywhere.
type Supervisor struct {
	cfg     Config
	net     NetworkSession
	bus     BusSession
	handler bus.Handler
	log     *slog.Logger
	met     *metrics.Gateway

	sleep retry.SleepFunc
	now   func() time.Time

	duties       []Duty
	lastNetCheck time.Time

	mu    sync.RWMutex
	state State
}

// New creates a supervisor with immutable config.
func New(cfg Config, net NetworkSession, b BusSession, handler bus.Handler, log *slog.Logger, met *metrics.Gateway) (*Supervisor, error) {
	if net == nil || b == nil {
		return nil, errors.New("supervisor: network and bus sessions required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("supervisor: topic required")
	}
	if cfg.Network.Attempts <= 0 || cfg.Bus.Attempts <= 0 {
		return nil, errors.New("supervisor: attempts must be > 0")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Supervisor{
		cfg:     cfg,
		net:     net,
		bus:     b,
		handler: handler,
		log:     log,
		met:     met,
		sleep:   retry.Sleep,
		now:     time.Now,
	}
	met.ObserveState(false, false)
	return s, nil
}

// WithSleep replaces the inter-attempt wait (tests).
func (s *Supervisor) WithSleep(fn retry.SleepFunc) *Supervisor {
	s.sleep = fn
	return s
}

// WithClock replaces the time source (tests).
func (s *Supervisor) WithClock(now func() time.Time) *Supervisor {
	s.now = now
	return s
}

// AddDuty registers periodic work run at the end of every Tick.
func (s *Supervisor) AddDuty(d Duty) {
	s.duties = append(s.duties, d)
}

// State returns a copy of the connection state.
func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ---- transitions ----

func (s *Supervisor) setNetwork(p Phase) {
	s.mu.Lock()
	s.state.Network = p
	if p != Connected {
		// Bus cannot outlive the network.
		s.state.Bus = Disconnected
	}
	st := s.state
	s.mu.Unlock()

	s.met.ObserveState(st.Network == Connected, st.Bus == Connected)
}

func (s *Supervisor) setBus(p Phase) bool {
	s.mu.Lock()
	if p != Disconnected && s.state.Network != Connected {
		s.mu.Unlock()
		return false
	}
	s.state.Bus = p
	st := s.state
	s.mu.Unlock()

	s.met.ObserveState(st.Network == Connected, st.Bus == Connected)
	return true
}

// ---- operations ----

// EnsureNetwork brings the network session to Connected.
// No-op when already connected. Exhaustion leaves the state
// Disconnected and returns a recoverable ErrNetworkUnavailable.
func (s *Supervisor) EnsureNetwork(ctx context.Context) error {
	if s.State().Network == Connected {
		return nil
	}

	s.setNetwork(Connecting)
	s.log.Info("connecting network", "attempts", s.cfg.Network.Attempts)

	var addr string
	err := retry.Do(ctx, s.cfg.Network, s.sleep, func(attempt int) error {
		s.met.NetworkAttempt()

		a, err := s.net.Associate(ctx)
		if err != nil {
			s.log.Debug("network attempt failed", "attempt", attempt, "err", err)
			return err
		}
		addr = a
		return nil
	})
	if err != nil {
		s.setNetwork(Disconnected)
		s.log.Warn("network failed", "err", err)
		return fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}

	s.setNetwork(Connected)
	s.lastNetCheck = s.now()
	s.log.Info("network connected", "addr", addr)
	return nil
}

// EnsureBus establishes the bus session and subscribes the topic.
// Requires a connected network; never attempts otherwise.
func (s *Supervisor) EnsureBus(ctx context.Context) error {
	st := s.State()
	if st.Network != Connected {
		return ErrNetworkDown
	}
	if st.Bus == Connected {
		return nil
	}

	if !s.setBus(Connecting) {
		return ErrNetworkDown
	}
	s.log.Info("connecting bus", "attempts", s.cfg.Bus.Attempts)

	err := retry.Do(ctx, s.cfg.Bus, s.sleep, func(attempt int) error {
		s.met.BusAttempt()

		if err := s.bus.Connect(ctx); err != nil {
			s.log.Warn("bus connect failed", "attempt", attempt, "err", err)
			return err
		}
		if err := s.bus.Subscribe(s.cfg.Topic, s.handler); err != nil {
			s.log.Warn("bus subscribe failed", "attempt", attempt, "topic", s.cfg.Topic, "err", err)
			s.bus.Close()
			return err
		}
		return nil
	})
	if err != nil {
		s.setBus(Disconnected)
		s.log.Warn("bus failed", "err", err)
		return fmt.Errorf("%w: %w", ErrBusUnavailable, err)
	}

	s.setBus(Connected)
	s.log.Info("bus connected", "topic", s.cfg.Topic)
	return nil
}

// networkAlive checks the network session, throttled by NetworkCheck.
func (s *Supervisor) networkAlive() bool {
	now := s.now()
	if s.cfg.NetworkCheck > 0 && now.Sub(s.lastNetCheck) < s.cfg.NetworkCheck {
		return true
	}
	s.lastNetCheck = now
	return s.net.Connected()
}

// Tick runs one liveness iteration:
// network check, then bus check or bus service, then periodic duties.
// Connectivity failures are logged and retried on a later tick.
func (s *Supervisor) Tick(ctx context.Context) {
	st := s.State()

	switch {
	case st.Network != Connected || !s.networkAlive():
		if st.Network == Connected {
			s.log.Warn("network lost, reconnecting")
			s.setNetwork(Disconnected)
			s.bus.Close()
		}
		_ = s.EnsureNetwork(ctx)

	case st.Bus != Connected || !s.bus.Connected():
		if st.Bus == Connected {
			s.log.Warn("bus lost, reconnecting")
			s.setBus(Disconnected)
			s.bus.Close()
		}
		_ = s.EnsureBus(ctx)

	default:
		s.bus.Service(ctx)
	}

	if ctx.Err() != nil {
		return
	}

	now := s.now()
	st = s.State()
	for _, d := range s.duties {
		d.Tick(now, st)
	}
}
