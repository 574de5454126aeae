// internal/config/validate.go
package config

import (
	"fmt"
)

// Driver and policy names accepted in the config file.
const (
	LineSerial    = "serial"
	LineUART16550 = "uart16550"

	DeviceMPU401  = "mpu401"
	DeviceRawMIDI = "rawmidi"

	ReadyPlain       = "plain"
	ReadySystemReset = "system_reset"

	TransportModbus = "modbus"
	TransportIngest = "ingest"
)

// MaxBufferCapacity bounds relay.buffer_capacity.
const MaxBufferCapacity = 1 << 20

// uartClock is the 16550 divisor base (1.8432 MHz / 16).
const uartClock = 115200

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted here.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// RELAY
	// ------------------------------------------------------------

	if cfg.Relay.BufferCapacity < 0 || cfg.Relay.BufferCapacity > MaxBufferCapacity {
		return fmt.Errorf(
			"relay.buffer_capacity: %d out of range (1..%d)",
			cfg.Relay.BufferCapacity,
			MaxBufferCapacity,
		)
	}

	switch cfg.Relay.ReadyPolicy {
	case "", ReadyPlain, ReadySystemReset:
	default:
		return fmt.Errorf("relay.ready_policy: unknown policy %q", cfg.Relay.ReadyPolicy)
	}

	if cfg.Relay.SpinLimit < 0 {
		return fmt.Errorf("relay.spin_limit: must be >= 0, got %d", cfg.Relay.SpinLimit)
	}

	// ------------------------------------------------------------
	// LINE
	// ------------------------------------------------------------

	if cfg.Line.Baud < 0 {
		return fmt.Errorf("line.baud: must be > 0, got %d", cfg.Line.Baud)
	}

	switch cfg.Line.Driver {
	case "", LineSerial:
		if cfg.Line.Device == "" {
			return fmt.Errorf("line.device: required for driver %q", LineSerial)
		}
		if cfg.Line.PollTimeoutUs < 0 {
			return fmt.Errorf("line.poll_timeout_us: must be >= 0, got %d", cfg.Line.PollTimeoutUs)
		}

	case LineUART16550:
		// The divisor latch is programmed from the 115200 base clock.
		if cfg.Line.Baud != 0 && uartClock%cfg.Line.Baud != 0 {
			return fmt.Errorf(
				"line.baud: %d is not reachable by a 16550 divisor of %d",
				cfg.Line.Baud,
				uartClock,
			)
		}

	default:
		return fmt.Errorf("line.driver: unknown driver %q", cfg.Line.Driver)
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	switch cfg.Device.Driver {
	case "", DeviceMPU401:
	case DeviceRawMIDI:
		if cfg.Device.Path == "" {
			return fmt.Errorf("device.path: required for driver %q", DeviceRawMIDI)
		}
	default:
		return fmt.Errorf("device.driver: unknown driver %q", cfg.Device.Driver)
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Status.Endpoint != "" {
		switch cfg.Status.Transport {
		case "", TransportModbus, TransportIngest:
		default:
			return fmt.Errorf("status.transport: unknown transport %q", cfg.Status.Transport)
		}

		// Modbus addresses 248..255 are reserved.
		if cfg.Status.UnitID > 247 {
			return fmt.Errorf("status.unit_id: %d out of range (0..247)", cfg.Status.UnitID)
		}

		for i := 0; i < len(cfg.Status.DeviceName); i++ {
			if cfg.Status.DeviceName[i] > 0x7F {
				return fmt.Errorf("status.device_name: must contain ASCII characters only")
			}
		}

		if cfg.Status.TimeoutMs < 0 {
			return fmt.Errorf("status.timeout_ms: must be >= 0, got %d", cfg.Status.TimeoutMs)
		}
	} else if cfg.Status.Transport != "" || cfg.Status.DeviceName != "" {
		return fmt.Errorf("status: settings present but status.endpoint is empty")
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}

	return nil
}
