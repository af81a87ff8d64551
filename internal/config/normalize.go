// internal/config/normalize.go
package config

import "github.com/tamzrod/serial-relay/internal/status"

// Defaults mirror the field firmware this bridge replaces.
const (
	DefaultNetworkAttempts = 40
	DefaultNetworkDelayMs  = 500
	DefaultNetworkCheckMs  = 1000

	DefaultBusKind       = BusMQTT
	DefaultBusKeepaliveS = 60
	DefaultBusAttempts   = 10
	DefaultBusDelayMs    = 4000
	DefaultBusInbox      = 64
	DefaultBusQoS        = 0

	DefaultPublisherQoS     = 1
	DefaultPublisherDelayMs = 2000

	DefaultBaud          = 115200
	DefaultSerialTimeout = 100

	DefaultLoopIntervalMs = 10
	DefaultStatusTimeout  = 1000

	DefaultBufferSize = 256
	DefaultPulseMs    = 1
)

// NormalizeGateway applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after ValidateGateway().
func NormalizeGateway(g *GatewayConfig) {
	if g == nil {
		return
	}

	if g.Network.Attempts == 0 {
		g.Network.Attempts = DefaultNetworkAttempts
	}
	if g.Network.DelayMs == 0 {
		g.Network.DelayMs = DefaultNetworkDelayMs
	}
	if g.Network.CheckMs == 0 {
		g.Network.CheckMs = DefaultNetworkCheckMs
	}

	normalizeBus(&g.Bus, DefaultBusQoS, DefaultBusDelayMs)

	normalizeSerial(&g.Serial)

	if g.Loop.IntervalMs == 0 {
		g.Loop.IntervalMs = DefaultLoopIntervalMs
	}

	// ------------------------------------------------------------
	// STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if g.Status.Endpoint == "" {
		return
	}
	if g.Status.TimeoutMs == 0 {
		g.Status.TimeoutMs = DefaultStatusTimeout
	}

	// ASCII already validated; truncate to what the block can hold.
	if len(g.Status.DeviceName) > status.DeviceNameMaxChars {
		g.Status.DeviceName = g.Status.DeviceName[:status.DeviceNameMaxChars]
	}
}

// NormalizeController applies controller defaults.
// It MUST be called only after ValidateController().
func NormalizeController(c *ControllerConfig) {
	if c == nil {
		return
	}

	normalizeSerial(&c.Serial)

	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Pulse.HighMs == 0 && c.Pulse.LowMs == 0 {
		c.Pulse.HighMs = DefaultPulseMs
		c.Pulse.LowMs = DefaultPulseMs
	}
}

// NormalizePublisher applies publisher defaults: QoS 1, 2s between attempts.
// It MUST be called only after ValidatePublisher().
func NormalizePublisher(p *PublisherConfig) {
	if p == nil {
		return
	}
	normalizeBus(&p.Bus, DefaultPublisherQoS, DefaultPublisherDelayMs)
}

func normalizeBus(b *BusConfig, qos, delayMs int) {
	if b.Kind == "" {
		b.Kind = DefaultBusKind
	}
	if b.QoS == nil {
		b.QoS = &qos
	}
	if b.KeepaliveS == 0 {
		b.KeepaliveS = DefaultBusKeepaliveS
	}
	if b.Attempts == 0 {
		b.Attempts = DefaultBusAttempts
	}
	if b.DelayMs == 0 {
		b.DelayMs = delayMs
	}
	if b.Inbox == 0 {
		b.Inbox = DefaultBusInbox
	}
}

func normalizeSerial(s *SerialConfig) {
	if s.Baud == 0 {
		s.Baud = DefaultBaud
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultSerialTimeout
	}
}
