// internal/cancel/cbreak_linux.go
//go:build linux

package cancel

import "golang.org/x/sys/unix"

// cbreak disables line buffering and echo but keeps output processing
// and signal keys, so log lines and Ctrl-C keep working.
func cbreak(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Lflag &^= unix.ICANON | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// flushInput discards input received but not yet read.
func flushInput(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}
