// internal/relay/buffer.go
package relay

import "errors"

// Buffer is a bounded byte FIFO between the line and the device.
// Capacity is fixed at construction. Occupancy never exceeds it:
// Push checks for room before touching storage.
type Buffer struct {
	data []byte
	head int
	n    int
}

// NewBuffer allocates an empty buffer holding up to capacity bytes.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, errors.New("relay: buffer capacity must be > 0")
	}
	return &Buffer{data: make([]byte, capacity)}, nil
}

// Push appends b, or returns ErrOverflow and leaves the buffer unchanged.
func (q *Buffer) Push(b byte) error {
	if q.n == len(q.data) {
		return ErrOverflow
	}
	q.data[(q.head+q.n)%len(q.data)] = b
	q.n++
	return nil
}

// PopFront removes and returns the oldest byte.
func (q *Buffer) PopFront() (byte, bool) {
	if q.n == 0 {
		return 0, false
	}
	b := q.data[q.head]
	q.head = (q.head + 1) % len(q.data)
	q.n--
	return b, true
}

func (q *Buffer) Len() int      { return q.n }
func (q *Buffer) Cap() int      { return len(q.data) }
func (q *Buffer) IsEmpty() bool { return q.n == 0 }
func (q *Buffer) IsFull() bool  { return q.n == len(q.data) }
