// internal/bus/mqtt.go
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// quiesceMs bounds how long Disconnect waits for in-flight work.
const quiesceMs = 250

// MQTT is a Session over an MQTT broker.
type MQTT struct {
	opts   Options
	client mqtt.Client
	inbox  *inbox
	log    *slog.Logger

	topic   string
	handler Handler
}

// NewMQTT prepares an MQTT session. No network activity.
func NewMQTT(o Options) (*MQTT, error) {
	if o.URL == "" {
		return nil, errors.New("bus mqtt: url required")
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}

	co := mqtt.NewClientOptions().
		AddBroker(o.URL).
		SetClientID(o.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(o.Timeout).
		SetOrderMatters(true)

	if o.Keepalive > 0 {
		co.SetKeepAlive(o.Keepalive)
	}
	if o.Username != "" {
		co.SetUsername(o.Username)
		co.SetPassword(o.Password)
	}
	if secureScheme(o.URL) {
		tc, err := tlsConfig(o.CAFile)
		if err != nil {
			return nil, err
		}
		co.SetTLSConfig(tc)
	}

	s := &MQTT{
		opts:  o,
		inbox: newInbox(o.InboxSize, o.Log, o.Metrics),
		log:   o.Log,
	}

	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.log.Warn("mqtt connection lost", "err", err)
	})

	s.client = mqtt.NewClient(co)
	return s, nil
}

// Connect makes one connection attempt. A session that is still open
// is dropped first: with auto-reconnect off, paho refuses Connect on it.
func (s *MQTT) Connect(ctx context.Context) error {
	if s.client.IsConnected() {
		s.client.Disconnect(0)
	}

	tok := s.client.Connect()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tok.Done():
	}

	if err := tok.Error(); err != nil {
		return fmt.Errorf("bus mqtt: connect %s: %w", s.opts.URL, err)
	}
	return nil
}

// Subscribe registers the single topic. Deliveries are queued, not run.
func (s *MQTT) Subscribe(topic string, h Handler) error {
	if !s.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	tok := s.client.Subscribe(topic, s.opts.QoS, func(_ mqtt.Client, m mqtt.Message) {
		s.inbox.push(m.Topic(), m.Payload())
	})
	if !tok.WaitTimeout(s.opts.Timeout) {
		return fmt.Errorf("bus mqtt: subscribe %s: timeout", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("bus mqtt: subscribe %s: %w", topic, err)
	}

	s.topic = topic
	s.handler = h
	return nil
}

// Publish sends at the session QoS. QoS 1 and 2 wait for the broker ack.
func (s *MQTT) Publish(topic string, payload []byte) error {
	if !s.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	tok := s.client.Publish(topic, s.opts.QoS, false, payload)
	if !tok.WaitTimeout(s.opts.Timeout) {
		return fmt.Errorf("bus mqtt: publish %s: timeout", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("bus mqtt: publish %s: %w", topic, err)
	}
	return nil
}

func (s *MQTT) Connected() bool {
	return s.client.IsConnectionOpen()
}

// Service delivers queued messages to the subscribed handler.
func (s *MQTT) Service(ctx context.Context) int {
	return s.inbox.drain(ctx, s.handler)
}

// Close drops the session. Safe to call when not connected.
func (s *MQTT) Close() {
	if s.client.IsConnected() {
		s.client.Disconnect(quiesceMs)
	}
}

func secureScheme(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "tls", "ssl", "mqtts", "wss":
		return true
	}
	return false
}
