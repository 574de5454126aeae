// internal/line/uart/uart_test.go
package uart

import (
	"testing"
)

type write struct {
	port uint16
	v    byte
}

// fakeBus records writes and serves a receive queue at base+regData.
type fakeBus struct {
	base   uint16
	writes []write
	rx     []byte
}

func (f *fakeBus) In(port uint16) (byte, error) {
	switch port - f.base {
	case regLSR:
		if len(f.rx) > 0 {
			return lsrDataRdy | 0x60, nil
		}
		return 0x60, nil
	case regData:
		if len(f.rx) == 0 {
			return 0, nil
		}
		b := f.rx[0]
		f.rx = f.rx[1:]
		return b, nil
	}
	return 0xff, nil
}

func (f *fakeBus) Out(port uint16, v byte) error {
	f.writes = append(f.writes, write{port, v})
	return nil
}

func TestNew_InitSequence(t *testing.T) {
	bus := &fakeBus{base: 0x3f8}

	if _, err := New(bus, 0x3f8, 19200); err != nil {
		t.Fatalf("New() err=%v", err)
	}

	want := []write{
		{0x3f9, 0x00},
		{0x3fb, 0x80},
		{0x3f8, 6}, // 115200 / 19200
		{0x3f9, 0x00},
		{0x3fb, 0x03},
		{0x3fa, 0xc7},
		{0x3fc, 0x0b},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(bus.writes))
	}
	for i := range want {
		if bus.writes[i] != want[i] {
			t.Fatalf("write %d: got=%+v want=%+v", i, bus.writes[i], want[i])
		}
	}
}

func TestNew_DivisorHighByte(t *testing.T) {
	bus := &fakeBus{base: 0x2f8}

	if _, err := New(bus, 0x2f8, 300); err != nil {
		t.Fatalf("New() err=%v", err)
	}

	// 115200 / 300 = 384 = 0x0180
	if bus.writes[2] != (write{0x2f8, 0x80}) || bus.writes[3] != (write{0x2f9, 0x01}) {
		t.Fatalf("divisor latch writes wrong: %+v %+v", bus.writes[2], bus.writes[3])
	}
}

func TestDivisor_Rejects(t *testing.T) {
	for _, baud := range []int{0, -1, 31250, 230400} {
		if _, err := Divisor(baud); err == nil {
			t.Fatalf("baud=%d: expected error", baud)
		}
	}
}

func TestPoll(t *testing.T) {
	bus := &fakeBus{base: 0x3f8}
	u, err := New(bus, 0x3f8, 115200)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if _, ok, _ := u.Poll(); ok {
		t.Fatalf("expected no data")
	}

	bus.rx = []byte{0xf8, 0x90}
	for _, want := range []byte{0xf8, 0x90} {
		b, ok, err := u.Poll()
		if err != nil || !ok {
			t.Fatalf("Poll ok=%v err=%v", ok, err)
		}
		if b != want {
			t.Fatalf("got=0x%02x want=0x%02x", b, want)
		}
	}

	if _, ok, _ := u.Poll(); ok {
		t.Fatalf("expected drained line")
	}
}
