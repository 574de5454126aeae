// internal/device/mpu401/mpu401.go
package mpu401

import (
	"github.com/tamzrod/mpu-relay/internal/ioport"
)

// Status register bits (read at base+1).
const (
	// StatusOutputBusy is set while the device cannot take a data or command byte (DRR).
	StatusOutputBusy = 0x40
	// StatusInputEmpty is set while the device has nothing for the host to read (DSR).
	StatusInputEmpty = 0x80
)

// Command bytes (written at base+1).
const (
	cmdReset    byte = 0xff
	cmdUARTMode byte = 0x3f
)

// MPU implements device.Sink and device.Commander for an MPU-401
// compatible interface at a fixed base port.
type MPU struct {
	bus    ioport.Bus
	data   uint16
	status uint16 // also the command port
}

// New binds an MPU-401 at base. No I/O is performed.
func New(bus ioport.Bus, base uint16) *MPU {
	return &MPU{
		bus:    bus,
		data:   base,
		status: base + 1,
	}
}

func (m *MPU) readStatus() (byte, error) {
	return m.bus.In(m.status)
}

// ---- device.Sink ----

func (m *MPU) Ready() (bool, error) {
	st, err := m.readStatus()
	if err != nil {
		return false, err
	}
	return st&StatusOutputBusy == 0, nil
}

func (m *MPU) Send(b byte) error {
	return m.bus.Out(m.data, b)
}

// ---- device.Commander ----

func (m *MPU) CommandReady() (bool, error) {
	return m.Ready()
}

func (m *MPU) Reset() error {
	return m.bus.Out(m.status, cmdReset)
}

func (m *MPU) EnterUART() error {
	return m.bus.Out(m.status, cmdUARTMode)
}

func (m *MPU) Acknowledged() (bool, error) {
	st, err := m.readStatus()
	if err != nil {
		return false, err
	}
	return st&StatusInputEmpty == 0, nil
}
