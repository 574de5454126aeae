// internal/device/rawmidi/rawmidi_test.go
package rawmidi

import (
	"testing"

	"golang.org/x/sys/unix"
)

// A pipe stands in for the MIDI character device.
func pipe(t *testing.T) (r int, p *Port) {
	t.Helper()

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() { unix.Close(fds[0]) })

	p = fromFD(fds[1], "pipe")
	t.Cleanup(func() { p.Close() })
	return fds[0], p
}

func TestReadyThenSend(t *testing.T) {
	r, p := pipe(t)

	for _, b := range []byte{0x90, 0x3c, 0x64} {
		ready, err := p.Ready()
		if err != nil {
			t.Fatalf("Ready err=%v", err)
		}
		if !ready {
			t.Fatalf("empty pipe should be writable")
		}
		if err := p.Send(b); err != nil {
			t.Fatalf("Send err=%v", err)
		}
	}

	buf := make([]byte, 8)
	n, err := unix.Read(r, buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != string([]byte{0x90, 0x3c, 0x64}) {
		t.Fatalf("got % x", buf[:n])
	}
}

func TestReady_FullPipeNotReady(t *testing.T) {
	_, p := pipe(t)

	chunk := make([]byte, 4096)
	for {
		if _, err := unix.Write(p.fd, chunk); err != nil {
			break // EAGAIN: pipe is full
		}
	}

	ready, err := p.Ready()
	if err != nil {
		t.Fatalf("Ready err=%v", err)
	}
	if ready {
		t.Fatalf("full pipe reported ready")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error")
	}
}
