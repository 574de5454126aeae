// internal/line/serial/port.go
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	gserial "github.com/goburrow/serial"
)

// rxFIFOSize mirrors the receive FIFO depth of a buffered UART.
const rxFIFOSize = 64

// Config is minimal tty config. Framing is always 8N1.
type Config struct {
	Device  string
	Baud    int
	Timeout time.Duration // per-read wait, must be > 0 to keep Poll non-blocking
}

// Port implements line.Source on top of an OS serial device.
// Reads drain the driver in chunks; Poll hands them out one byte at a time.
type Port struct {
	rw   io.ReadCloser
	rx   [rxFIFOSize]byte
	head int
	n    int
}

// Open opens and configures the tty.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("line serial: device required")
	}
	if cfg.Baud <= 0 {
		return nil, errors.New("line serial: baud must be > 0")
	}
	if cfg.Timeout <= 0 {
		// goburrow/serial blocks forever on a zero timeout.
		return nil, errors.New("line serial: timeout must be > 0")
	}

	p, err := gserial.Open(&gserial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("line serial: open %s: %w", cfg.Device, err)
	}

	return newPort(p), nil
}

func newPort(rw io.ReadCloser) *Port {
	return &Port{rw: rw}
}

// Poll returns the next received byte, if any.
func (p *Port) Poll() (byte, bool, error) {
	if p.n == 0 {
		n, err := p.rw.Read(p.rx[:])
		if err != nil {
			if errors.Is(err, gserial.ErrTimeout) {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("line serial: read: %w", err)
		}
		if n == 0 {
			// A hung-up tty reads zero bytes without a timeout.
			return 0, false, fmt.Errorf("line serial: read: %w", io.EOF)
		}
		p.head, p.n = 0, n
	}

	b := p.rx[p.head]
	p.head++
	p.n--
	return b, true, nil
}

// Pending is the number of bytes read from the driver but not yet polled.
func (p *Port) Pending() int {
	return p.n
}

// Close closes the tty.
func (p *Port) Close() error {
	if p == nil || p.rw == nil {
		return nil
	}
	return p.rw.Close()
}
