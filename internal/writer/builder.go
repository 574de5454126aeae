// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/mpu-relay/internal/config"
	"github.com/tamzrod/mpu-relay/internal/status"
	"github.com/tamzrod/mpu-relay/internal/writer/ingest"
	wmodbus "github.com/tamzrod/mpu-relay/internal/writer/modbus"
)

// BuildStatus converts the status config into a connected status writer.
// Assumes config has already been validated and normalized.
func BuildStatus(c cfg.StatusConfig) (*DeviceStatusWriter, func() error, error) {
	if c.Endpoint == "" {
		return nil, nil, errors.New("writer: status endpoint required")
	}

	plan := StatusPlan{
		Endpoint:   c.Endpoint,
		Target:     status.Target{UnitID: c.UnitID, BaseSlot: c.BaseSlot},
		DeviceName: c.DeviceName,
	}
	timeout := time.Duration(c.TimeoutMs) * time.Millisecond

	switch c.Transport {
	case cfg.TransportModbus:
		cli, err := wmodbus.New(wmodbus.Config{
			Endpoint: c.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return NewDeviceStatusWriter(plan, cli), cli.Close, nil

	case cfg.TransportIngest:
		cli, err := ingest.New(ingest.Config{
			Endpoint: c.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return NewDeviceStatusWriter(plan, cli), cli.Close, nil

	default:
		return nil, nil, fmt.Errorf("writer: unknown status transport %q", c.Transport)
	}
}
