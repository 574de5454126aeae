// internal/relay/event.go
package relay

// EventKind tells observers what happened.
type EventKind uint8

const (
	// EventDelivered: one byte reached the device. Count is the running total.
	EventDelivered EventKind = iota + 1
	// EventOverflow: one byte was dropped at capacity. Count is the total dropped.
	EventOverflow
	// EventState: the device lifecycle moved to State.
	EventState
)

func (k EventKind) String() string {
	switch k {
	case EventDelivered:
		return "delivered"
	case EventOverflow:
		return "overflow"
	case EventState:
		return "state"
	default:
		return "unknown"
	}
}

// Event is a one-way notification from the engine.
type Event struct {
	Kind     EventKind
	Count    uint64
	Value    byte
	Buffered int
	State    State
}

// Observer receives engine events. Observe is called on the relay's
// polling path and MUST return without waiting.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

type discard struct{}

func (discard) Observe(Event) {}
