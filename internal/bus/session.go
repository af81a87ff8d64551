// internal/bus/session.go
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cfg "github.com/tamzrod/serial-relay/internal/config"
	"github.com/tamzrod/serial-relay/internal/metrics"
)

// ErrNotConnected is returned by Subscribe before a successful Connect.
var ErrNotConnected = errors.New("bus: not connected")

// Handler receives one inbound message on the supervisor loop.
type Handler func(topic string, payload []byte)

// Session is one publish/subscribe session with the remote broker.
//
// Connect makes ONE attempt. Reconnection is the caller's job, so client
// library auto-reconnect is always disabled.
// Inbound messages are queued by the client library and surface only
// through Service, on the caller's goroutine.
//
// Publish sends one message and waits for the broker to take it, up to
// the session timeout.
type Session interface {
	Connect(ctx context.Context) error
	Subscribe(topic string, h Handler) error
	Publish(topic string, payload []byte) error
	Connected() bool
	Service(ctx context.Context) int
	Close()
}

// Options is the runtime config shared by all session kinds.
type Options struct {
	URL       string
	ClientID  string
	Username  string
	Password  string
	QoS       byte
	Keepalive time.Duration
	CAFile    string
	Timeout   time.Duration
	InboxSize int
	Log       *slog.Logger
	Metrics   *metrics.Gateway
}

// Build creates the session selected by config. It does not connect.
func Build(b cfg.BusConfig, log *slog.Logger, met *metrics.Gateway) (Session, error) {
	if log == nil {
		log = slog.Default()
	}

	clientID := b.ClientID
	if clientID == "" {
		clientID = "gateway-" + uuid.NewString()
	}

	qos := 0
	if b.QoS != nil {
		qos = *b.QoS
	}

	opts := Options{
		URL:       b.URL,
		ClientID:  clientID,
		Username:  b.Username,
		Password:  b.Password,
		QoS:       byte(qos),
		Keepalive: time.Duration(b.KeepaliveS) * time.Second,
		CAFile:    b.CAFile,
		Timeout:   10 * time.Second,
		InboxSize: b.Inbox,
		Log:       log.With("bus", b.Kind),
		Metrics:   met,
	}

	var (
		s   Session
		err error
	)
	switch b.Kind {
	case cfg.BusMQTT, "":
		s, err = NewMQTT(opts)
	case cfg.BusNATS:
		s, err = NewNATS(opts)
	default:
		return nil, fmt.Errorf("bus: unsupported kind %q", b.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
