// internal/device/sink.go
package device

// Sink is the output side: a MIDI device taking one byte at a time.
// Send MUST only be called after Ready returned true; the relay loop
// owns that check.
type Sink interface {
	Ready() (bool, error)
	Send(b byte) error
}

// Commander is implemented by sinks that also expose a command port
// (MPU-401 intelligent-mode interface). The lifecycle uses it to reset
// the device and switch it to UART (pass-through) mode.
type Commander interface {
	// CommandReady reports whether the command port accepts a write.
	CommandReady() (bool, error)
	// Reset writes the reset command.
	Reset() error
	// Acknowledged reports whether the device has posted its answer
	// to the last command.
	Acknowledged() (bool, error)
	// EnterUART writes the switch to UART (pass-through) mode.
	EnterUART() error
}
