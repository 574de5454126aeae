// internal/line/uart/uart.go
package uart

import (
	"fmt"

	"github.com/tamzrod/mpu-relay/internal/ioport"
)

// 16550 register offsets from the base port.
const (
	regData = 0 // RBR / THR, DLL while DLAB=1
	regIER  = 1 // DLM while DLAB=1
	regFCR  = 2
	regLCR  = 3
	regMCR  = 4
	regLSR  = 5
)

const (
	ierNone     = 0x00 // polled, no interrupts
	lcrDLAB     = 0x80
	lcr8N1      = 0x03
	fcrEnable14 = 0xc7 // enable + clear both FIFOs, 14-byte trigger
	mcrDTRRTS   = 0x0b // DTR, RTS, OUT2
	lsrDataRdy  = 0x01
)

// Clock is the divisor base in bits per second.
const Clock = 115200

// UART implements line.Source by polling a 16550 through port I/O.
type UART struct {
	bus  ioport.Bus
	base uint16
}

// Divisor returns the divisor latch value for baud.
func Divisor(baud int) (uint16, error) {
	if baud <= 0 || baud > Clock || Clock%baud != 0 {
		return 0, fmt.Errorf("line uart: baud %d not reachable from %d", baud, Clock)
	}
	return uint16(Clock / baud), nil
}

// New programs the UART for polled 8N1 reception and returns it.
func New(bus ioport.Bus, base uint16, baud int) (*UART, error) {
	div, err := Divisor(baud)
	if err != nil {
		return nil, err
	}

	u := &UART{bus: bus, base: base}

	seq := []struct {
		reg uint16
		v   byte
	}{
		{regIER, ierNone},
		{regLCR, lcrDLAB},
		{regData, byte(div)},
		{regIER, byte(div >> 8)},
		{regLCR, lcr8N1},
		{regFCR, fcrEnable14},
		{regMCR, mcrDTRRTS},
	}
	for _, s := range seq {
		if err := bus.Out(base+s.reg, s.v); err != nil {
			return nil, fmt.Errorf("line uart: init: %w", err)
		}
	}

	return u, nil
}

// Poll reads one byte if the line status register reports data ready.
func (u *UART) Poll() (byte, bool, error) {
	lsr, err := u.bus.In(u.base + regLSR)
	if err != nil {
		return 0, false, err
	}
	if lsr&lsrDataRdy == 0 {
		return 0, false, nil
	}

	b, err := u.bus.In(u.base + regData)
	if err != nil {
		return 0, false, err
	}
	return b, true, nil
}
