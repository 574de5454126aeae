// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Relay   RelayConfig   `yaml:"relay"`
	Line    LineConfig    `yaml:"line"`
	Device  DeviceConfig  `yaml:"device"`
	IOPort  IOPortConfig  `yaml:"ioport"`
	Display DisplayConfig `yaml:"display"`
	Status  StatusConfig  `yaml:"status"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ---- RELAY ----

type RelayConfig struct {
	BufferCapacity int    `yaml:"buffer_capacity"` // 0 => DefaultBufferCapacity
	ReadyPolicy    string `yaml:"ready_policy"`    // plain | system_reset
	SpinLimit      int    `yaml:"spin_limit"`      // 0 => unbounded busy waits
}

// ---- LINE (serial input) ----

type LineConfig struct {
	Driver        string `yaml:"driver"` // serial | uart16550
	Device        string `yaml:"device"` // serial only
	Base          uint16 `yaml:"base"`   // uart16550 only
	Baud          int    `yaml:"baud"`
	PollTimeoutUs int    `yaml:"poll_timeout_us"` // serial only
}

// ---- DEVICE (MIDI output) ----

type DeviceConfig struct {
	Driver string `yaml:"driver"` // mpu401 | rawmidi
	Base   uint16 `yaml:"base"`   // mpu401 only
	Path   string `yaml:"path"`   // rawmidi only
}

// ---- PORT I/O ----

type IOPortConfig struct {
	Path string `yaml:"path"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Enabled *bool `yaml:"enabled"` // nil => true
	Flash   *bool `yaml:"flash"`   // nil => true
}

// ---- STATUS BLOCK (optional, opt-in) ----

type StatusConfig struct {
	Transport  string `yaml:"transport"` // modbus | ingest
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- METRICS (optional) ----

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file: all defaults
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// StatusEnabled reports whether the status block export was opted in.
func (c *Config) StatusEnabled() bool {
	return c.Status.Endpoint != ""
}

// NeedsIOPort reports whether any configured driver talks to I/O ports directly.
func (c *Config) NeedsIOPort() bool {
	return c.Line.Driver == LineUART16550 || c.Device.Driver == DeviceMPU401
}
