// internal/status/encode.go
package status

// Encode converts a Snapshot into the live slots of a status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, LiveSlots)

	regs[SlotHealthCode] = s.Health
	regs[SlotLifecycleState] = s.State
	regs[SlotDeliveredHi] = uint16(s.Delivered >> 16)
	regs[SlotDeliveredLo] = uint16(s.Delivered)
	regs[SlotOverflowsHi] = uint16(s.Overflows >> 16)
	regs[SlotOverflowsLo] = uint16(s.Overflows)
	regs[SlotBufferOccupancy] = s.BufferOccupied
	regs[SlotSecondsIdle] = s.SecondsIdle
	regs[SlotDroppedEvents] = s.DroppedEvents

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable characters are replaced with '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7e {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

// EncodeBlock builds the full SlotsPerDevice block: live slots,
// zeroed reserved slots and the device name.
func EncodeBlock(s Snapshot, nameRegs []uint16) []uint16 {
	regs := make([]uint16, SlotsPerDevice)
	copy(regs, Encode(s))

	for i := 0; i < SlotDeviceNameSlots && i < len(nameRegs); i++ {
		regs[SlotDeviceNameStart+i] = nameRegs[i]
	}
	return regs
}
