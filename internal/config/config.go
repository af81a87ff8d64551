// internal/config/config.go
package config

import "time"

type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway"`
	Controller ControllerConfig `yaml:"controller"`
	Publisher  PublisherConfig  `yaml:"publisher"`
}

// ---- GATEWAY ----

type GatewayConfig struct {
	Network NetworkConfig `yaml:"network"`
	Bus     BusConfig     `yaml:"bus"`
	Serial  SerialConfig  `yaml:"serial"`
	Loop    LoopConfig    `yaml:"loop"`
	Status  StatusConfig  `yaml:"status"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// NetworkConfig controls host network association.
// Interface empty means "any up, non-loopback interface".
// CheckMs throttles the liveness check while connected.
type NetworkConfig struct {
	Interface string `yaml:"interface"`
	Attempts  int    `yaml:"attempts"`
	DelayMs   int    `yaml:"delay_ms"`
	CheckMs   int    `yaml:"check_ms"`
}

// ---- BUS ----

const (
	BusMQTT = "mqtt"
	BusNATS = "nats"
)

// BusConfig is one broker session. QoS nil means the role's default.
type BusConfig struct {
	Kind       string `yaml:"kind"`
	URL        string `yaml:"url"`
	ClientID   string `yaml:"client_id"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Topic      string `yaml:"topic"`
	QoS        *int   `yaml:"qos"`
	KeepaliveS int    `yaml:"keepalive_s"`
	CAFile     string `yaml:"ca_file"`
	Attempts   int    `yaml:"attempts"`
	DelayMs    int    `yaml:"delay_ms"`
	Inbox      int    `yaml:"inbox"`
}

// ---- SERIAL LINK ----

type SerialConfig struct {
	Address   string `yaml:"address"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- LOOP ----

type LoopConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- STATUS (opt-in) ----

// StatusConfig enables the health status block.
// Empty Endpoint disables it.
type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// ---- PUBLISHER ----

// PublisherConfig drives the command-line publisher.
type PublisherConfig struct {
	Bus BusConfig `yaml:"bus"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	Serial     SerialConfig  `yaml:"serial"`
	BufferSize int           `yaml:"buffer_size"`
	Pulse      PulseConfig   `yaml:"pulse"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

type PulseConfig struct {
	HighMs int `yaml:"high_ms"`
	LowMs  int `yaml:"low_ms"`
}

// Ms converts a millisecond config value to a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
