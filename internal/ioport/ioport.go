// internal/ioport/ioport.go
package ioport

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Bus is byte-wide access to x86 I/O ports.
// Register-level drivers depend on this contract only.
type Bus interface {
	In(port uint16) (byte, error)
	Out(port uint16, v byte) error
}

// DevPort is a Bus backed by the Linux /dev/port character device.
// The file offset is the port number. Needs CAP_SYS_RAWIO.
type DevPort struct {
	fd   int
	path string
}

// Open opens the port device for read/write.
func Open(path string) (*DevPort, error) {
	if path == "" {
		return nil, errors.New("ioport: path required")
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("ioport: open %s: %w", path, err)
	}

	return &DevPort{fd: fd, path: path}, nil
}

// In reads one byte from port.
func (d *DevPort) In(port uint16) (byte, error) {
	var b [1]byte
	n, err := unix.Pread(d.fd, b[:], int64(port))
	if err != nil {
		return 0, fmt.Errorf("ioport: in 0x%03x: %w", port, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("ioport: in 0x%03x: short read", port)
	}
	return b[0], nil
}

// Out writes one byte to port.
func (d *DevPort) Out(port uint16, v byte) error {
	n, err := unix.Pwrite(d.fd, []byte{v}, int64(port))
	if err != nil {
		return fmt.Errorf("ioport: out 0x%03x: %w", port, err)
	}
	if n != 1 {
		return fmt.Errorf("ioport: out 0x%03x: short write", port)
	}
	return nil
}

// Close releases the device.
func (d *DevPort) Close() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
