// internal/line/builder.go
package line

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/mpu-relay/internal/config"
	"github.com/tamzrod/mpu-relay/internal/ioport"
	"github.com/tamzrod/mpu-relay/internal/line/serial"
	"github.com/tamzrod/mpu-relay/internal/line/uart"
)

// Build opens the configured line driver.
// bus is required for uart16550 and ignored otherwise.
// The returned closer releases the driver; it is safe to call once.
func Build(c cfg.LineConfig, bus ioport.Bus) (Source, func() error, error) {
	switch c.Driver {
	case cfg.LineSerial:
		p, err := serial.Open(serial.Config{
			Device:  c.Device,
			Baud:    c.Baud,
			Timeout: time.Duration(c.PollTimeoutUs) * time.Microsecond,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	case cfg.LineUART16550:
		if bus == nil {
			return nil, nil, errors.New("line: uart16550 needs port I/O")
		}
		u, err := uart.New(bus, c.Base, c.Baud)
		if err != nil {
			return nil, nil, err
		}
		// Registers stay programmed; nothing to release.
		return u, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("line: unknown driver %q", c.Driver)
	}
}
