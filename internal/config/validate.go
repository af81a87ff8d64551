// internal/config/validate.go
package config

import (
	"fmt"
)

// ValidateGateway checks gateway configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use default" and are accepted here; Normalize fills them.
func ValidateGateway(g *GatewayConfig) error {
	if g == nil {
		return fmt.Errorf("gateway: section missing")
	}

	// ------------------------------------------------------------
	// NETWORK
	// ------------------------------------------------------------

	if g.Network.Attempts < 0 {
		return fmt.Errorf("gateway.network.attempts: must be >= 1, got %d", g.Network.Attempts)
	}
	if g.Network.DelayMs < 0 {
		return fmt.Errorf("gateway.network.delay_ms: must be >= 0, got %d", g.Network.DelayMs)
	}
	if g.Network.CheckMs < 0 {
		return fmt.Errorf("gateway.network.check_ms: must be >= 0, got %d", g.Network.CheckMs)
	}

	// ------------------------------------------------------------
	// BUS
	// ------------------------------------------------------------

	if err := validateBus("gateway.bus", g.Bus); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// SERIAL / LOOP
	// ------------------------------------------------------------

	if err := validateSerial("gateway.serial", g.Serial); err != nil {
		return err
	}
	if g.Loop.IntervalMs < 0 {
		return fmt.Errorf("gateway.loop.interval_ms: must be >= 0, got %d", g.Loop.IntervalMs)
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	// device_name sanity (ASCII only)
	for i := 0; i < len(g.Status.DeviceName); i++ {
		if g.Status.DeviceName[i] > 0x7F {
			return fmt.Errorf("gateway.status.device_name: must contain ASCII characters only")
		}
	}

	if g.Status.Endpoint != "" {
		if g.Status.UnitID > 247 {
			return fmt.Errorf("gateway.status.unit_id: must be <= 247, got %d", g.Status.UnitID)
		}
		if g.Status.TimeoutMs < 0 {
			return fmt.Errorf("gateway.status.timeout_ms: must be >= 0, got %d", g.Status.TimeoutMs)
		}
	}

	return nil
}

// ValidateController checks controller configuration correctness.
// Same rules as ValidateGateway: declarative, no mutation.
func ValidateController(c *ControllerConfig) error {
	if c == nil {
		return fmt.Errorf("controller: section missing")
	}

	if err := validateSerial("controller.serial", c.Serial); err != nil {
		return err
	}

	// One byte is reserved for the line terminator slot.
	if c.BufferSize != 0 && c.BufferSize < 2 {
		return fmt.Errorf("controller.buffer_size: must be >= 2, got %d", c.BufferSize)
	}
	if c.Pulse.HighMs < 0 || c.Pulse.LowMs < 0 {
		return fmt.Errorf("controller.pulse: durations must be >= 0")
	}

	return nil
}

func validateSerial(key string, s SerialConfig) error {
	if s.Address == "" {
		return fmt.Errorf("%s.address: required", key)
	}
	if s.Baud < 0 {
		return fmt.Errorf("%s.baud: must be > 0, got %d", key, s.Baud)
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("%s.timeout_ms: must be >= 0, got %d", key, s.TimeoutMs)
	}
	return nil
}

// ValidatePublisher checks the publisher section. Same rules.
func ValidatePublisher(p *PublisherConfig) error {
	if p == nil {
		return fmt.Errorf("publisher: section missing")
	}
	return validateBus("publisher.bus", p.Bus)
}

func validateBus(key string, b BusConfig) error {
	switch b.Kind {
	case "", BusMQTT, BusNATS:
	default:
		return fmt.Errorf("%s.kind: unsupported %q (want %s or %s)", key, b.Kind, BusMQTT, BusNATS)
	}
	if b.URL == "" {
		return fmt.Errorf("%s.url: required", key)
	}
	if b.Topic == "" {
		return fmt.Errorf("%s.topic: required", key)
	}
	if b.QoS != nil && (*b.QoS < 0 || *b.QoS > 2) {
		return fmt.Errorf("%s.qos: must be 0, 1 or 2, got %d", key, *b.QoS)
	}
	if b.KeepaliveS < 0 {
		return fmt.Errorf("%s.keepalive_s: must be >= 0, got %d", key, b.KeepaliveS)
	}
	if b.Attempts < 0 {
		return fmt.Errorf("%s.attempts: must be >= 1, got %d", key, b.Attempts)
	}
	if b.DelayMs < 0 {
		return fmt.Errorf("%s.delay_ms: must be >= 0, got %d", key, b.DelayMs)
	}
	if b.Inbox < 0 {
		return fmt.Errorf("%s.inbox: must be >= 1, got %d", key, b.Inbox)
	}
	return nil
}
