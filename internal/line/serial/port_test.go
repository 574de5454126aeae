// internal/line/serial/port_test.go
package serial

import (
	"errors"
	"io"
	"testing"

	gserial "github.com/goburrow/serial"
)

// fakeTTY returns one scripted chunk per Read; an empty chunk times out.
type fakeTTY struct {
	chunks [][]byte
	err    error
	closed bool
}

func (f *fakeTTY) Read(b []byte) (int, error) {
	if len(f.chunks) == 0 {
		if f.err != nil {
			return 0, f.err
		}
		return 0, gserial.ErrTimeout
	}
	c := f.chunks[0]
	f.chunks = f.chunks[1:]
	if len(c) == 0 {
		return 0, gserial.ErrTimeout
	}
	return copy(b, c), nil
}

func (f *fakeTTY) Close() error {
	f.closed = true
	return nil
}

func TestPoll_OneByteAtATimeInOrder(t *testing.T) {
	tty := &fakeTTY{chunks: [][]byte{{0x90, 0x3c}, {}, {0x64}}}
	p := newPort(tty)

	var got []byte
	for i := 0; i < 6; i++ {
		b, ok, err := p.Poll()
		if err != nil {
			t.Fatalf("Poll err=%v", err)
		}
		if ok {
			got = append(got, b)
		}
	}

	want := []byte{0x90, 0x3c, 0x64}
	if string(got) != string(want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

func TestPoll_BuffersChunk(t *testing.T) {
	tty := &fakeTTY{chunks: [][]byte{{1, 2, 3}}}
	p := newPort(tty)

	if _, ok, _ := p.Poll(); !ok {
		t.Fatalf("expected a byte")
	}
	if p.Pending() != 2 {
		t.Fatalf("pending: got=%d want=2", p.Pending())
	}
}

func TestPoll_TimeoutIsEmpty(t *testing.T) {
	p := newPort(&fakeTTY{})

	_, ok, err := p.Poll()
	if err != nil || ok {
		t.Fatalf("expected empty poll, got ok=%v err=%v", ok, err)
	}
}

func TestPoll_ReadErrorSurfaces(t *testing.T) {
	boom := errors.New("device unplugged")
	p := newPort(&fakeTTY{err: boom})

	_, _, err := p.Poll()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

// hungUpTTY reads zero bytes without an error, like a tty after hang-up.
type hungUpTTY struct{}

func (hungUpTTY) Read([]byte) (int, error) { return 0, nil }
func (hungUpTTY) Close() error             { return nil }

func TestPoll_HangUpIsEOF(t *testing.T) {
	p := newPort(hungUpTTY{})

	for i := 0; i < 3; i++ {
		_, ok, err := p.Poll()
		if ok || !errors.Is(err, io.EOF) {
			t.Fatalf("poll %d: expected io.EOF, got ok=%v err=%v", i, ok, err)
		}
	}
}

func TestOpen_RejectsZeroTimeout(t *testing.T) {
	if _, err := Open(Config{Device: "/dev/ttyS0", Baud: 115200}); err == nil {
		t.Fatalf("expected timeout error, got nil")
	}
}
