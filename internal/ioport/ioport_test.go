// internal/ioport/ioport_test.go
package ioport

import (
	"os"
	"path/filepath"
	"testing"
)

// A regular file stands in for /dev/port: pread/pwrite at the port offset.
func TestDevPort_InOutAtOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port")
	if err := os.WriteFile(path, make([]byte, 0x400), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	defer d.Close()

	if err := d.Out(0x330, 0x3f); err != nil {
		t.Fatalf("Out() err=%v", err)
	}
	if err := d.Out(0x331, 0xff); err != nil {
		t.Fatalf("Out() err=%v", err)
	}

	got, err := d.In(0x330)
	if err != nil {
		t.Fatalf("In() err=%v", err)
	}
	if got != 0x3f {
		t.Fatalf("port 0x330: got=0x%02x want=0x3f", got)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if raw[0x331] != 0xff {
		t.Fatalf("file offset 0x331: got=0x%02x want=0xff", raw[0x331])
	}
}

func TestDevPort_ShortReadPastEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port")
	if err := os.WriteFile(path, make([]byte, 16), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	defer d.Close()

	if _, err := d.In(0x3f8); err == nil {
		t.Fatalf("expected short read error, got nil")
	}
}

func TestOpen_MissingPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
