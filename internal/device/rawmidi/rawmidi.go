// internal/device/rawmidi/rawmidi.go
package rawmidi

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Port implements device.Sink on an ALSA raw MIDI character device
// (/dev/snd/midiCxDy). Readiness is POLLOUT with a zero timeout.
// There is no command port: the lifecycle skips reset and UART mode.
type Port struct {
	fd   int
	path string
}

// Open opens path write-only and non-blocking.
func Open(path string) (*Port, error) {
	if path == "" {
		return nil, errors.New("device rawmidi: path required")
	}
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("device rawmidi: open %s: %w", path, err)
	}
	return &Port{fd: fd, path: path}, nil
}

func fromFD(fd int, path string) *Port {
	return &Port{fd: fd, path: path}
}

func (p *Port) Ready() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLOUT}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("device rawmidi: poll %s: %w", p.path, err)
	}
	if n == 0 {
		return false, nil
	}

	re := fds[0].Revents
	if re&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, fmt.Errorf("device rawmidi: %s: poll revents 0x%x", p.path, re)
	}
	return re&unix.POLLOUT != 0, nil
}

func (p *Port) Send(b byte) error {
	n, err := unix.Write(p.fd, []byte{b})
	if err != nil {
		return fmt.Errorf("device rawmidi: write %s: %w", p.path, err)
	}
	if n != 1 {
		return fmt.Errorf("device rawmidi: write %s: short write", p.path)
	}
	return nil
}

func (p *Port) Close() error {
	if p == nil || p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}
