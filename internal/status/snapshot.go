// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	State          uint16
	Delivered      uint32
	Overflows      uint32
	BufferOccupied uint16
	SecondsIdle    uint16
	DroppedEvents  uint16
}

// Saturate clamps v into a 16-bit slot.
func Saturate(v uint64) uint16 {
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}
