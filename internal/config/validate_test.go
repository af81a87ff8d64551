// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/serial-relay/internal/status"
)

// helper to build a minimal valid gateway section
func gateway() *GatewayConfig {
	return &GatewayConfig{
		Bus: BusConfig{
			URL:   "tcp://broker:1883",
			Topic: "epicure/commands",
		},
		Serial: SerialConfig{Address: "/dev/ttyUSB0"},
	}
}

func intPtr(v int) *int { return &v }

// ---- tests ----

func TestValidateGateway_Minimal(t *testing.T) {
	require.NoError(t, ValidateGateway(gateway()))
}

func TestValidateGateway_Rejects(t *testing.T) {
	cases := map[string]func(g *GatewayConfig){
		"missing url":      func(g *GatewayConfig) { g.Bus.URL = "" },
		"missing topic":    func(g *GatewayConfig) { g.Bus.Topic = "" },
		"bad kind":         func(g *GatewayConfig) { g.Bus.Kind = "amqp" },
		"bad qos":          func(g *GatewayConfig) { g.Bus.QoS = intPtr(3) },
		"negative attempt": func(g *GatewayConfig) { g.Network.Attempts = -1 },
		"negative delay":   func(g *GatewayConfig) { g.Bus.DelayMs = -5 },
		"no serial":        func(g *GatewayConfig) { g.Serial.Address = "" },
		"non ascii name":   func(g *GatewayConfig) { g.Status.DeviceName = "gåteway" },
		"status unit id": func(g *GatewayConfig) {
			g.Status.Endpoint = "plc:502"
			g.Status.UnitID = 250
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			g := gateway()
			mutate(g)
			assert.Error(t, ValidateGateway(g))
		})
	}
}

func TestValidateGateway_DoesNotMutate(t *testing.T) {
	g := gateway()
	before := *g

	require.NoError(t, ValidateGateway(g))
	assert.Equal(t, before, *g)
}

func TestValidateController(t *testing.T) {
	c := &ControllerConfig{Serial: SerialConfig{Address: "/dev/ttyUSB1"}}
	require.NoError(t, ValidateController(c))

	c.BufferSize = 1
	assert.Error(t, ValidateController(c))

	c.BufferSize = 2
	c.Pulse.LowMs = -1
	assert.Error(t, ValidateController(c))

	assert.Error(t, ValidateController(&ControllerConfig{}))
}

func TestNormalizeGateway_Defaults(t *testing.T) {
	g := gateway()
	g.Status.Endpoint = "plc:502"
	g.Status.DeviceName = "a-very-long-gateway-name"

	NormalizeGateway(g)

	assert.Equal(t, DefaultNetworkAttempts, g.Network.Attempts)
	assert.Equal(t, DefaultNetworkDelayMs, g.Network.DelayMs)
	assert.Equal(t, DefaultNetworkCheckMs, g.Network.CheckMs)
	assert.Equal(t, BusMQTT, g.Bus.Kind)
	assert.Equal(t, DefaultBusAttempts, g.Bus.Attempts)
	assert.Equal(t, DefaultBusDelayMs, g.Bus.DelayMs)
	assert.Equal(t, DefaultBaud, g.Serial.Baud)
	assert.Equal(t, DefaultStatusTimeout, g.Status.TimeoutMs)
	assert.Len(t, g.Status.DeviceName, status.DeviceNameMaxChars)
}

func TestNormalizeGateway_KeepsExplicitValues(t *testing.T) {
	g := gateway()
	g.Network.Attempts = 3
	g.Bus.DelayMs = 25
	g.Bus.Kind = BusNATS

	NormalizeGateway(g)

	assert.Equal(t, 3, g.Network.Attempts)
	assert.Equal(t, 25, g.Bus.DelayMs)
	assert.Equal(t, BusNATS, g.Bus.Kind)
}

func TestNormalizeController_Defaults(t *testing.T) {
	c := &ControllerConfig{Serial: SerialConfig{Address: "/dev/ttyUSB1"}}
	NormalizeController(c)

	assert.Equal(t, DefaultBufferSize, c.BufferSize)
	assert.Equal(t, 1, c.Pulse.HighMs)
	assert.Equal(t, 1, c.Pulse.LowMs)
}

func TestNormalizeGateway_QoS(t *testing.T) {
	g := gateway()
	NormalizeGateway(g)
	require.NotNil(t, g.Bus.QoS)
	assert.Equal(t, 0, *g.Bus.QoS)

	g = gateway()
	g.Bus.QoS = intPtr(2)
	NormalizeGateway(g)
	assert.Equal(t, 2, *g.Bus.QoS)
}

func TestPublisher_ValidateAndNormalize(t *testing.T) {
	p := &PublisherConfig{Bus: BusConfig{URL: "tls://broker:8883", Topic: "epicure/commands"}}
	require.NoError(t, ValidatePublisher(p))

	NormalizePublisher(p)
	require.NotNil(t, p.Bus.QoS)
	assert.Equal(t, DefaultPublisherQoS, *p.Bus.QoS)
	assert.Equal(t, DefaultPublisherDelayMs, p.Bus.DelayMs)
	assert.Equal(t, DefaultBusAttempts, p.Bus.Attempts)
	assert.Equal(t, BusMQTT, p.Bus.Kind)

	// Explicit QoS 0 is kept.
	p = &PublisherConfig{Bus: BusConfig{URL: "tcp://b:1883", Topic: "t", QoS: intPtr(0)}}
	NormalizePublisher(p)
	assert.Equal(t, 0, *p.Bus.QoS)

	assert.Error(t, ValidatePublisher(&PublisherConfig{}))
	assert.Error(t, ValidatePublisher(&PublisherConfig{Bus: BusConfig{URL: "x", Topic: "t", QoS: intPtr(-1)}}))
	assert.Error(t, ValidatePublisher(nil))
}
