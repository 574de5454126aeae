// internal/writer/types.go
package writer

import "github.com/tamzrod/mpu-relay/internal/status"

// StatusPlan is where the relay status block lives on the target.
type StatusPlan struct {
	Endpoint   string
	Target     status.Target
	DeviceName string
}

// StatusWriter is the delivery-only contract for relay status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact contract the status writer uses.
// Transports own the framing of a span on the wire.
type endpointClient interface {
	WriteSpan(dst status.Target, sp status.Span) error
}
