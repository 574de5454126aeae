// internal/cancel/cancel.go
package cancel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// Keys that request a stop when typed on the controlling terminal.
const (
	KeyEscape byte = 0x1b
	KeyQuit   byte = 'q'
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// WatchKeyboard returns a context cancelled when ESC or q is typed on in.
// When in is a terminal it is switched to unbuffered, no-echo input until
// the returned restore func is called; restore also discards unread
// input. When it is not a terminal the context only follows parent.
func WatchKeyboard(parent context.Context, in *os.File) (context.Context, func() error, error) {
	ctx, stop := context.WithCancel(parent)

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return ctx, func() error { stop(); return nil }, nil
	}

	old, err := term.GetState(fd)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("cancel: terminal state: %w", err)
	}
	if err := cbreak(fd); err != nil {
		stop()
		return nil, nil, fmt.Errorf("cancel: terminal mode: %w", err)
	}

	// The reader stays blocked on stdin after restore; the process is
	// about to exit by then.
	go watch(in, stop)

	restore := func() error {
		stop()
		// Keys typed during the run must not reach the shell.
		return errors.Join(flushInput(fd), term.Restore(fd, old))
	}
	return ctx, restore, nil
}

// watch reads keys until a stop key, EOF or a read error.
func watch(r io.Reader, stop func()) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b == KeyEscape || b == KeyQuit {
				stop()
				return
			}
		}
		if err != nil {
			return
		}
	}
}
