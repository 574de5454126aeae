// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/mpu-relay/internal/status"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client writes status spans as holding registers (FC 16) over one
// Modbus TCP connection. The connection is opened on the first write and
// dropped after any failed write, so the next span reconnects.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("status modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	return &Client{handler: h, client: modbus.NewClient(h)}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteSpan delivers sp into the status block at dst.
func (c *Client) WriteSpan(dst status.Target, sp status.Span) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// SlaveId is per handler; the lock makes it per request.
	c.handler.SlaveId = dst.UnitID

	if _, err := c.client.WriteMultipleRegisters(dst.Addr(sp), sp.Len(), sp.Bytes()); err != nil {
		_ = c.handler.Close()
		return fmt.Errorf("status modbus: unit %d slots %d-%d: %w", dst.UnitID, sp.Offset, sp.Last(), err)
	}
	return nil
}
