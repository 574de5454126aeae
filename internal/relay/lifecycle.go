// internal/relay/lifecycle.go
package relay

import (
	"fmt"

	"github.com/tamzrod/mpu-relay/internal/device"
)

// State is the device session state. It only moves forward.
type State uint8

const (
	Uninitialized State = iota
	Resetting
	UartMode
	Ready
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Resetting:
		return "resetting"
	case UartMode:
		return "uart_mode"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting_down"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ReadyPolicy selects what happens between UART mode and Ready.
type ReadyPolicy uint8

const (
	// ReadyPlain declares Ready right after entering UART mode.
	ReadyPlain ReadyPolicy = iota
	// ReadySystemReset first sends a MIDI System Reset through the data path.
	ReadySystemReset
)

// ParseReadyPolicy maps the config name to a policy.
func ParseReadyPolicy(s string) (ReadyPolicy, error) {
	switch s {
	case "", "plain":
		return ReadyPlain, nil
	case "system_reset":
		return ReadySystemReset, nil
	default:
		return ReadyPlain, fmt.Errorf("relay: unknown ready policy %q", s)
	}
}

// MIDI bytes used by the lifecycle.
const (
	midiSystemReset   byte = 0xff
	midiControlChange byte = 0xb0
	ccAllNotesOff     byte = 0x7b

	// Channels is the number of MIDI channels silenced at shutdown.
	Channels = 16
)

// SilenceCommand is the "All Notes Off" channel mode message for ch (0-15).
func SilenceCommand(ch uint8) [3]byte {
	return [3]byte{midiControlChange | ch&0x0f, ccAllNotesOff, 0x00}
}

// Lifecycle brackets a device session: Start once, Shutdown once.
type Lifecycle struct {
	sink   device.Sink
	spin   Spinner
	policy ReadyPolicy
	obs    Observer
	state  State
}

// NewLifecycle binds a lifecycle to sink. No I/O is performed.
func NewLifecycle(sink device.Sink, spin Spinner, policy ReadyPolicy, obs Observer) *Lifecycle {
	if obs == nil {
		obs = discard{}
	}
	return &Lifecycle{
		sink:   sink,
		spin:   spin,
		policy: policy,
		obs:    obs,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

func (l *Lifecycle) set(s State) {
	l.state = s
	l.obs.Observe(Event{Kind: EventState, State: s})
}

// Start resets the device, switches it to UART mode and declares Ready.
// Sinks without a command port pass through Resetting and UartMode
// without I/O.
func (l *Lifecycle) Start() error {
	if l.state != Uninitialized {
		return fmt.Errorf("relay: start from state %s", l.state)
	}

	cmd, hasCmd := l.sink.(device.Commander)

	l.set(Resetting)
	if hasCmd {
		if err := l.spin.Until(cmd.CommandReady); err != nil {
			return fmt.Errorf("relay: reset: wait command port: %w", err)
		}
		if err := cmd.Reset(); err != nil {
			return fmt.Errorf("relay: reset: %w", err)
		}
		if err := l.spin.Until(cmd.Acknowledged); err != nil {
			return fmt.Errorf("relay: reset: wait acknowledge: %w", err)
		}
	}

	l.set(UartMode)
	if hasCmd {
		if err := cmd.EnterUART(); err != nil {
			return fmt.Errorf("relay: uart mode: %w", err)
		}
	}

	if l.policy == ReadySystemReset {
		if err := l.send(midiSystemReset); err != nil {
			return fmt.Errorf("relay: system reset: %w", err)
		}
	}

	l.set(Ready)
	return nil
}

// send writes one data byte once the device reports ready.
func (l *Lifecycle) send(b byte) error {
	if err := l.spin.Until(l.sink.Ready); err != nil {
		return err
	}
	return l.sink.Send(b)
}

// Shutdown silences all 16 channels, each byte readiness-gated, and
// stops the session. From any state other than Ready it stops without
// device I/O. A second call is a no-op.
func (l *Lifecycle) Shutdown() error {
	switch l.state {
	case Stopped:
		return nil
	case Ready:
	default:
		l.set(Stopped)
		return nil
	}

	l.set(ShuttingDown)

	var err error
	for ch := uint8(0); ch < Channels && err == nil; ch++ {
		for _, b := range SilenceCommand(ch) {
			if err = l.send(b); err != nil {
				err = fmt.Errorf("relay: silence channel %d: %w", ch, err)
				break
			}
		}
	}

	l.set(Stopped)
	return err
}
