// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/mpu-relay/internal/status"
)

// DeviceStatusWriter delivers relay status snapshots into status memory.
// The first write (and the first write after any failure) re-asserts the
// full block including the device name; later writes only touch the live
// slots that changed.
type DeviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// NewDeviceStatusWriter binds a status writer to one endpoint client.
func NewDeviceStatusWriter(plan StatusPlan, cli endpointClient) *DeviceStatusWriter {
	return &DeviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}
}

// WriteStatus delivers one snapshot.
// On any write failure, the next call re-asserts the full block.
func (sw *DeviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	live := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		block := status.Span{Regs: status.EncodeBlock(s, sw.nameRegs)}

		if err := sw.cli.WriteSpan(sw.plan.Target, block); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = live
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: one write per run of consecutive changed slots.
	// A counter whose halves both changed goes out in one request.
	// ------------------------------------------------------------
	var errs []string

	for _, sp := range status.Changed(sw.last, live) {
		if err := sw.cli.WriteSpan(sw.plan.Target, sp); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", sp.Offset, sp.Last(), err))
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt — re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.last = live
	return nil
}
