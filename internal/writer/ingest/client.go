// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tamzrod/mpu-relay/internal/status"
)

// Raw Ingest v1 frame:
//
//	0-1  magic "RI"
//	2    version
//	3    area
//	4-5  unit id
//	6-7  address
//	8-9  count
//	10+  register payload, big-endian
const (
	frameVersion byte = 0x01
	frameHeader       = 10

	// Status blocks always land in holding registers.
	areaHolding byte = 3

	ackAccepted byte = 0x00
	ackRejected byte = 0x01

	defaultTimeout = 2 * time.Second
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client posts status spans to a Raw Ingest v1 listener.
// Each span is one connection: dial, frame, one-byte ack, close.
type Client struct {
	endpoint string
	timeout  time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("status ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{endpoint: cfg.Endpoint, timeout: cfg.Timeout}, nil
}

// Close is a no-op; connections do not outlive a span.
func (c *Client) Close() error { return nil }

// WriteSpan delivers sp into the holding registers of dst.
func (c *Client) WriteSpan(dst status.Target, sp status.Span) error {
	if err := c.exchange(appendFrame(nil, dst, sp)); err != nil {
		return fmt.Errorf("status ingest: slots %d-%d: %w", sp.Offset, sp.Last(), err)
	}
	return nil
}

func appendFrame(b []byte, dst status.Target, sp status.Span) []byte {
	b = append(b, 'R', 'I', frameVersion, areaHolding)
	b = binary.BigEndian.AppendUint16(b, uint16(dst.UnitID))
	b = binary.BigEndian.AppendUint16(b, dst.Addr(sp))
	b = binary.BigEndian.AppendUint16(b, sp.Len())
	return append(b, sp.Bytes()...)
}

func (c *Client) exchange(frame []byte) error {
	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(frame); err != nil {
		return err
	}

	var ack [1]byte
	if _, err := io.ReadFull(conn, ack[:]); err != nil {
		return fmt.Errorf("read ack: %w", err)
	}
	switch ack[0] {
	case ackAccepted:
		return nil
	case ackRejected:
		return errors.New("rejected")
	default:
		return fmt.Errorf("unknown ack 0x%02x", ack[0])
	}
}
