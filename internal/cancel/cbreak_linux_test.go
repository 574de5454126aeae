// internal/cancel/cbreak_linux_test.go
//go:build linux

package cancel

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// openPTY returns both ends of a fresh pseudo-terminal.
func openPTY(t *testing.T) (master, slave *os.File) {
	t.Helper()

	m, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	if err := unix.IoctlSetPointerInt(int(m.Fd()), unix.TIOCSPTLCK, 0); err != nil {
		m.Close()
		t.Fatalf("unlock pty: %v", err)
	}
	n, err := unix.IoctlGetUint32(int(m.Fd()), unix.TIOCGPTN)
	if err != nil {
		m.Close()
		t.Fatalf("pty number: %v", err)
	}
	s, err := os.OpenFile(fmt.Sprintf("/dev/pts/%d", n), os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		m.Close()
		t.Fatalf("open pts: %v", err)
	}

	// Master closes first so a reader blocked on the slave sees EIO.
	t.Cleanup(func() { s.Close() })
	t.Cleanup(func() { m.Close() })
	return m, s
}

func TestWatchKeyboard_EscapeOnTerminal(t *testing.T) {
	master, slave := openPTY(t)

	ctx, restore, err := WatchKeyboard(context.Background(), slave)
	if err != nil {
		t.Fatalf("WatchKeyboard err=%v", err)
	}

	// No Enter needed in cbreak mode.
	if _, err := master.Write([]byte{KeyEscape}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("escape did not cancel")
	}

	if err := restore(); err != nil {
		t.Fatalf("restore err=%v", err)
	}
}

func TestWatchKeyboard_RestoreDiscardsTypedKeys(t *testing.T) {
	master, slave := openPTY(t)

	ctx, restore, err := WatchKeyboard(context.Background(), slave)
	if err != nil {
		t.Fatalf("WatchKeyboard err=%v", err)
	}
	if _, err := master.Write([]byte{KeyQuit}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("q did not cancel")
	}

	// The watcher has returned; these keys stay queued on the tty.
	if _, err := master.Write([]byte("ls\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := restore(); err != nil {
		t.Fatalf("restore err=%v", err)
	}

	fd := int(slave.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		t.Fatalf("nonblock: %v", err)
	}
	buf := make([]byte, 16)
	n, err := unix.Read(fd, buf)
	if err != unix.EAGAIN {
		t.Fatalf("expected no pending input, read %q err=%v", buf[:max(n, 0)], err)
	}
}
