// internal/cancel/cbreak_other.go
//go:build !linux

package cancel

// cbreak is a no-op here: keys are seen after Enter.
func cbreak(fd int) error { return nil }

func flushInput(fd int) error { return nil }
