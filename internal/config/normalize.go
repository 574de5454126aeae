// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultBufferCapacity = 32768
	DefaultBaud           = 115200
	DefaultPollTimeoutUs  = 1
	DefaultUARTBase       = 0x3f8 // COM1
	DefaultMPUBase        = 0x330
	DefaultIOPortPath     = "/dev/port"
	DefaultStatusTimeout  = 1000
	DefaultLogLevel       = "info"

	deviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- relay ----
	if cfg.Relay.BufferCapacity == 0 {
		cfg.Relay.BufferCapacity = DefaultBufferCapacity
	}
	if cfg.Relay.ReadyPolicy == "" {
		cfg.Relay.ReadyPolicy = ReadyPlain
	}

	// ---- line ----
	if cfg.Line.Driver == "" {
		cfg.Line.Driver = LineSerial
	}
	if cfg.Line.Baud == 0 {
		cfg.Line.Baud = DefaultBaud
	}
	switch cfg.Line.Driver {
	case LineSerial:
		if cfg.Line.PollTimeoutUs == 0 {
			cfg.Line.PollTimeoutUs = DefaultPollTimeoutUs
		}
	case LineUART16550:
		if cfg.Line.Base == 0 {
			cfg.Line.Base = DefaultUARTBase
		}
	}

	// ---- device ----
	if cfg.Device.Driver == "" {
		cfg.Device.Driver = DeviceMPU401
	}
	if cfg.Device.Driver == DeviceMPU401 && cfg.Device.Base == 0 {
		cfg.Device.Base = DefaultMPUBase
	}

	if cfg.IOPort.Path == "" {
		cfg.IOPort.Path = DefaultIOPortPath
	}

	// ---- display ----
	if cfg.Display.Enabled == nil {
		cfg.Display.Enabled = boolPtr(true)
	}
	if cfg.Display.Flash == nil {
		cfg.Display.Flash = boolPtr(true)
	}

	// ---- status (opt-in) ----
	if cfg.StatusEnabled() {
		if cfg.Status.Transport == "" {
			cfg.Status.Transport = TransportModbus
		}
		if cfg.Status.TimeoutMs == 0 {
			cfg.Status.TimeoutMs = DefaultStatusTimeout
		}
		// ASCII already validated
		if len(cfg.Status.DeviceName) > deviceNameMaxChars {
			cfg.Status.DeviceName = cfg.Status.DeviceName[:deviceNameMaxChars]
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func boolPtr(v bool) *bool { return &v }
