// internal/device/builder.go
package device

import (
	"errors"
	"fmt"

	cfg "github.com/tamzrod/mpu-relay/internal/config"
	"github.com/tamzrod/mpu-relay/internal/device/mpu401"
	"github.com/tamzrod/mpu-relay/internal/device/rawmidi"
	"github.com/tamzrod/mpu-relay/internal/ioport"
)

// Build opens the configured MIDI output driver.
// bus is required for mpu401 and ignored otherwise.
func Build(c cfg.DeviceConfig, bus ioport.Bus) (Sink, func() error, error) {
	switch c.Driver {
	case cfg.DeviceMPU401:
		if bus == nil {
			return nil, nil, errors.New("device: mpu401 needs port I/O")
		}
		// No-op closer: the lifecycle silences the device, the bus owner closes /dev/port.
		return mpu401.New(bus, c.Base), func() error { return nil }, nil

	case cfg.DeviceRawMIDI:
		p, err := rawmidi.Open(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	default:
		return nil, nil, fmt.Errorf("device: unknown driver %q", c.Driver)
	}
}
