// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
gateway:
  network:
    interface: wlan0
  bus:
    kind: nats
    url: nats://127.0.0.1:4222
    topic: epicure.commands
    attempts: 3
  serial:
    address: /dev/ttyUSB0
  status:
    endpoint: 127.0.0.1:502
    unit_id: 1
    device_name: GW-01
controller:
  serial:
    address: /dev/ttyUSB1
    baud: 9600
  buffer_size: 64
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wlan0", cfg.Gateway.Network.Interface)
	assert.Equal(t, BusNATS, cfg.Gateway.Bus.Kind)
	assert.Equal(t, 3, cfg.Gateway.Bus.Attempts)
	assert.Equal(t, "GW-01", cfg.Gateway.Status.DeviceName)
	assert.Equal(t, 9600, cfg.Controller.Serial.Baud)
	assert.Equal(t, 64, cfg.Controller.BufferSize)

	require.NoError(t, ValidateGateway(&cfg.Gateway))
	require.NoError(t, ValidateController(&cfg.Controller))
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("gateway:\n  buss: {}\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	require.NoError(t, ValidateGateway(&cfg.Gateway))
	require.NoError(t, ValidateController(&cfg.Controller))
	require.NoError(t, ValidatePublisher(&cfg.Publisher))

	NormalizeGateway(&cfg.Gateway)
	NormalizePublisher(&cfg.Publisher)
	assert.Equal(t, 1000, cfg.Gateway.Network.CheckMs)
	assert.Equal(t, "epicure/commands", cfg.Gateway.Bus.Topic)
	assert.Equal(t, 256, cfg.Controller.BufferSize)
	assert.Equal(t, 0, *cfg.Gateway.Bus.QoS)
	assert.Equal(t, 1, *cfg.Publisher.Bus.QoS)
	assert.Equal(t, cfg.Gateway.Bus.Topic, cfg.Publisher.Bus.Topic)
}
