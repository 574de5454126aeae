// internal/display/console.go
package display

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Console is the terminal collaborator: a running byte counter and a
// background colour that follows the last byte relayed.
// It is driven from the monitor goroutine only.
type Console struct {
	out     *termenv.Output
	flash   bool
	restore termenv.Color
	dirty   bool // counter line is open and needs a newline before other text
}

// New writes to w. Flashing is disabled on terminals without colour.
func New(w io.Writer, flash bool) *Console {
	out := termenv.NewOutput(w)
	c := &Console{
		out:   out,
		flash: flash && out.Profile != termenv.Ascii,
	}
	if c.flash {
		c.restore = out.BackgroundColor()
	}
	return c
}

// Banner prints the startup lines.
func (c *Console) Banner(lines ...string) {
	c.breakLine()
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}

// Progress redraws the counter and flashes the background for value.
func (c *Console) Progress(count uint64, value byte) {
	fmt.Fprintf(c.out, "\rBytes: %d", count)
	c.dirty = true

	if c.flash {
		c.out.SetBackgroundColor(FlashColor(value))
	}
}

// Overflow reports dropped bytes on their own line.
func (c *Console) Overflow(total uint64) {
	c.breakLine()
	fmt.Fprintf(c.out, "Buffer overflow! (%d bytes dropped)\n", total)
}

// Message prints one line of text below the counter.
func (c *Console) Message(text string) {
	c.breakLine()
	fmt.Fprintln(c.out, text)
}

// Close ends the counter line and restores the terminal background.
func (c *Console) Close() error {
	c.breakLine()
	if c.flash && c.restore != nil {
		c.out.SetBackgroundColor(c.restore)
	}
	return nil
}

func (c *Console) breakLine() {
	if c.dirty {
		fmt.Fprintln(c.out)
		c.dirty = false
	}
}

// FlashColor maps a byte to the flash colour. Components are computed on
// the 6-bit VGA DAC scale, then widened to 8 bits:
// b < 128 gives dark-to-bright green, b >= 128 gives yellow-green to yellow.
func FlashColor(b byte) termenv.RGBColor {
	var r, g uint8
	if b < 128 {
		r, g = 0, b>>1
	} else {
		r, g = (b-128)>>1, 63
	}
	return termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", widen(r), widen(g), 0))
}

// widen scales a 6-bit DAC value (0-63) to 8 bits (0-255).
func widen(v uint8) uint8 {
	return uint8(uint16(v) * 255 / 63)
}
