// internal/relay/lifecycle_test.go
package relay

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeMPU is a sink with a command port. Busy and ack delays are counted
// in status reads. Every command-port call is appended to trace.
type fakeMPU struct {
	fakeSink

	cmdBusy  int // CommandReady returns false this many times
	ackDelay int // Acknowledged returns false this many times
	ackNever bool

	trace []string
}

func (f *fakeMPU) CommandReady() (bool, error) {
	ready := f.cmdBusy == 0
	if !ready {
		f.cmdBusy--
	}
	f.trace = append(f.trace, fmt.Sprintf("command_ready=%v", ready))
	return ready, nil
}

func (f *fakeMPU) Reset() error {
	f.trace = append(f.trace, "reset")
	return nil
}

func (f *fakeMPU) EnterUART() error {
	f.trace = append(f.trace, "uart")
	return nil
}

func (f *fakeMPU) Acknowledged() (bool, error) {
	ack := !f.ackNever && f.ackDelay == 0
	if !ack && f.ackDelay > 0 {
		f.ackDelay--
	}
	f.trace = append(f.trace, fmt.Sprintf("ack=%v", ack))
	return ack, nil
}

func TestSilenceCommand(t *testing.T) {
	for ch := uint8(0); ch < Channels; ch++ {
		got := SilenceCommand(ch)
		want := [3]byte{0xb0 + ch, 0x7b, 0x00}
		if got != want {
			t.Fatalf("channel %d: got % x want % x", ch, got, want)
		}
	}
}

func TestStart_ResetThenUARTMode(t *testing.T) {
	dev := &fakeMPU{fakeSink: fakeSink{t: t}, cmdBusy: 2, ackDelay: 1}
	rec := &recorder{}

	l := NewLifecycle(dev, Spinner{}, ReadyPlain, rec)
	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}

	want := []string{
		"command_ready=false",
		"command_ready=false",
		"command_ready=true",
		"reset",
		"ack=false",
		"ack=true",
		"uart",
	}
	if got := strings.Join(dev.trace, " "); got != strings.Join(want, " ") {
		t.Fatalf("command port trace:\n got: %s\nwant: %s", got, strings.Join(want, " "))
	}
	if len(dev.sent) != 0 {
		t.Fatalf("plain policy sent data: % x", dev.sent)
	}
	if l.State() != Ready {
		t.Fatalf("state: got=%s want=ready", l.State())
	}
	if dev.cmdBusy != 0 || dev.ackDelay != 0 {
		t.Fatalf("busy waits skipped: cmdBusy=%d ackDelay=%d", dev.cmdBusy, dev.ackDelay)
	}
}

func TestStart_SystemResetPolicy(t *testing.T) {
	dev := &fakeMPU{fakeSink: fakeSink{t: t}}

	l := NewLifecycle(dev, Spinner{}, ReadySystemReset, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}

	if !bytes.Equal(dev.sent, []byte{0xff}) {
		t.Fatalf("expected MIDI system reset, got % x", dev.sent)
	}
}

func TestStart_NoAcknowledgeWithSpinLimit(t *testing.T) {
	dev := &fakeMPU{fakeSink: fakeSink{t: t}, ackNever: true}
	rec := &recorder{}

	l := NewLifecycle(dev, Spinner{Limit: 50}, ReadyPlain, rec)
	err := l.Start()
	if !errors.Is(err, ErrSpinLimit) {
		t.Fatalf("expected ErrSpinLimit, got %v", err)
	}
	if l.State() != Resetting {
		t.Fatalf("state: got=%s want=resetting", l.State())
	}

	// Never Ready: shutdown must not touch the device.
	if err := l.Shutdown(); err != nil {
		t.Fatalf("Shutdown err=%v", err)
	}
	if l.State() != Stopped || len(dev.sent) != 0 {
		t.Fatalf("state=%s sent=% x", l.State(), dev.sent)
	}
}

func TestStart_Twice(t *testing.T) {
	l := NewLifecycle(&fakeSink{t: t}, Spinner{}, ReadyPlain, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if err := l.Start(); err == nil {
		t.Fatalf("second Start should fail")
	}
}

func TestShutdown_WaitsForReadyBeforeEachByte(t *testing.T) {
	busy := 0
	sink := &fakeSink{t: t}
	// Busy for two reads before every byte.
	sink.ready = func() bool {
		busy++
		return busy%3 == 0
	}

	l := NewLifecycle(sink, Spinner{}, ReadyPlain, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if err := l.Shutdown(); err != nil {
		t.Fatalf("Shutdown err=%v", err)
	}

	if !bytes.Equal(sink.sent, silence()) {
		t.Fatalf("silence sequence: % x", sink.sent)
	}
	if sink.checks != 3*len(silence()) {
		t.Fatalf("readiness checks: got=%d want=%d", sink.checks, 3*len(silence()))
	}

	// Idempotent.
	if err := l.Shutdown(); err != nil || len(sink.sent) != 48 {
		t.Fatalf("second Shutdown: err=%v sent=%d", err, len(sink.sent))
	}
}

func TestShutdown_DeadDeviceStops(t *testing.T) {
	sink := &fakeSink{t: t}
	l := NewLifecycle(sink, Spinner{Limit: 10}, ReadyPlain, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}

	sink.ready = func() bool { return false }
	if err := l.Shutdown(); !errors.Is(err, ErrSpinLimit) {
		t.Fatalf("expected ErrSpinLimit, got %v", err)
	}
	if l.State() != Stopped {
		t.Fatalf("state: got=%s want=stopped", l.State())
	}
}

func TestParseReadyPolicy(t *testing.T) {
	if p, err := ParseReadyPolicy(""); err != nil || p != ReadyPlain {
		t.Fatalf("default: %v %v", p, err)
	}
	if p, err := ParseReadyPolicy("system_reset"); err != nil || p != ReadySystemReset {
		t.Fatalf("system_reset: %v %v", p, err)
	}
	if _, err := ParseReadyPolicy("bogus"); err == nil {
		t.Fatalf("expected error")
	}
}
