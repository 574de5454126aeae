// internal/status/span.go
package status

import "encoding/binary"

// Target locates one relay's status block on an endpoint.
type Target struct {
	UnitID   uint8
	BaseSlot uint16 // block address = BaseSlot * SlotsPerDevice
}

// Addr is the register address of the first slot of sp.
func (t Target) Addr(sp Span) uint16 {
	return t.BaseSlot*SlotsPerDevice + sp.Offset
}

// Span is a run of consecutive slots within one status block.
type Span struct {
	Offset uint16 // first slot, relative to the block
	Regs   []uint16
}

// Len is the number of slots in the span.
func (sp Span) Len() uint16 { return uint16(len(sp.Regs)) }

// Last is the block-relative index of the final slot.
func (sp Span) Last() uint16 { return sp.Offset + sp.Len() - 1 }

// Bytes is the span in register memory order (big-endian).
func (sp Span) Bytes() []byte {
	out := make([]byte, 0, 2*len(sp.Regs))
	for _, r := range sp.Regs {
		out = binary.BigEndian.AppendUint16(out, r)
	}
	return out
}

// Changed returns one span per run of consecutive slots where cur
// differs from prev. Slots beyond prev always count as changed.
func Changed(prev, cur []uint16) []Span {
	same := func(i int) bool { return i < len(prev) && prev[i] == cur[i] }

	var out []Span
	for start := 0; start < len(cur); {
		if same(start) {
			start++
			continue
		}
		end := start + 1
		for end < len(cur) && !same(end) {
			end++
		}
		out = append(out, Span{Offset: uint16(start), Regs: cur[start:end]})
		start = end
	}
	return out
}
