// internal/relay/engine.go
package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/mpu-relay/internal/device"
	"github.com/tamzrod/mpu-relay/internal/line"
)

// Config is the minimal runtime config the engine needs.
type Config struct {
	Capacity    int
	SpinLimit   int // 0 => unbounded busy waits
	ReadyPolicy ReadyPolicy
}

// Engine moves bytes from a line source to a device sink in arrival order.
// It is single-threaded: Run owns the buffer and both endpoints until it
// returns.
type Engine struct {
	src  line.Source
	sink device.Sink
	buf  *Buffer
	spin Spinner
	life *Lifecycle
	obs  Observer

	delivered uint64
	overflows uint64
	ran       bool
}

// New creates an engine with an empty buffer of cfg.Capacity bytes.
// obs may be nil.
func New(cfg Config, src line.Source, sink device.Sink, obs Observer) (*Engine, error) {
	if src == nil {
		return nil, errors.New("relay: line source required")
	}
	if sink == nil {
		return nil, errors.New("relay: device sink required")
	}
	if cfg.SpinLimit < 0 {
		return nil, errors.New("relay: spin limit must be >= 0")
	}
	buf, err := NewBuffer(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = discard{}
	}

	spin := Spinner{Limit: cfg.SpinLimit}
	return &Engine{
		src:  src,
		sink: sink,
		buf:  buf,
		spin: spin,
		life: NewLifecycle(sink, spin, cfg.ReadyPolicy, obs),
		obs:  obs,
	}, nil
}

// Run starts the device, relays until ctx is cancelled, then silences
// the device. ctx is only polled, never waited on: cancellation is
// noticed while waiting for the first byte of a burst and between
// deliveries. Bytes still buffered at that point are discarded.
//
// Shutdown is attempted even when relaying failed; both errors are
// returned joined.
func (e *Engine) Run(ctx context.Context) error {
	if e.ran {
		return errors.New("relay: engine already ran")
	}
	e.ran = true

	if err := e.life.Start(); err != nil {
		return errors.Join(err, e.life.Shutdown())
	}

	err := e.relay(ctx)
	if serr := e.life.Shutdown(); serr != nil {
		err = errors.Join(err, serr)
	}
	return err
}

func (e *Engine) relay(ctx context.Context) error {
	for !stopped(ctx) {
		got, err := e.waitFirst(ctx)
		if err != nil {
			return err
		}
		if !got {
			return nil
		}
		if _, err := e.Drain(); err != nil {
			return err
		}
	}
	return nil
}

// waitFirst polls the line until the buffer holds a byte.
// It returns at once if the buffer is already non-empty, and reports
// false if ctx was cancelled first.
func (e *Engine) waitFirst(ctx context.Context) (bool, error) {
	for e.buf.IsEmpty() {
		if stopped(ctx) {
			return false, nil
		}
		if err := e.pull(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Drain waits for the device while refilling the buffer from the line,
// then sends the oldest buffered byte. With an empty buffer it does
// nothing and reports false.
func (e *Engine) Drain() (bool, error) {
	if e.buf.IsEmpty() {
		return false, nil
	}

	err := e.spin.Until(func() (bool, error) {
		ready, err := e.sink.Ready()
		if err != nil {
			return false, fmt.Errorf("relay: device status: %w", err)
		}
		if ready {
			return true, nil
		}
		return false, e.pull()
	})
	if err != nil {
		return false, err
	}

	b, _ := e.buf.PopFront()
	if err := e.sink.Send(b); err != nil {
		return false, fmt.Errorf("relay: device send: %w", err)
	}

	e.delivered++
	e.obs.Observe(Event{
		Kind:     EventDelivered,
		Count:    e.delivered,
		Value:    b,
		Buffered: e.buf.Len(),
	})
	return true, nil
}

// pull polls the line once and buffers what arrived.
// On overflow the byte is dropped and reported; relaying continues.
func (e *Engine) pull() error {
	b, ok, err := e.src.Poll()
	if err != nil {
		return fmt.Errorf("relay: line poll: %w", err)
	}
	if !ok {
		return nil
	}

	if err := e.buf.Push(b); err != nil {
		e.overflows++
		e.obs.Observe(Event{
			Kind:     EventOverflow,
			Count:    e.overflows,
			Value:    b,
			Buffered: e.buf.Len(),
		})
	}
	return nil
}

// Delivered is the number of bytes sent to the device so far.
func (e *Engine) Delivered() uint64 { return e.delivered }

// Overflows is the number of bytes dropped at capacity so far.
func (e *Engine) Overflows() uint64 { return e.overflows }

// Buffered is the current buffer occupancy.
func (e *Engine) Buffered() int { return e.buf.Len() }

// State is the device lifecycle state.
func (e *Engine) State() State { return e.life.State() }

func stopped(ctx context.Context) bool {
	return ctx.Err() != nil
}
