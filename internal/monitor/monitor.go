// internal/monitor/monitor.go
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/mpu-relay/internal/metrics"
	"github.com/tamzrod/mpu-relay/internal/relay"
	"github.com/tamzrod/mpu-relay/internal/status"
	"github.com/tamzrod/mpu-relay/internal/writer"
)

const (
	DefaultMailbox = 1024
	DefaultTick    = time.Second
)

// Display is the console side of the monitor.
type Display interface {
	Progress(count uint64, value byte)
	Overflow(total uint64)
}

// Config wires the collaborators. Every collaborator is optional.
type Config struct {
	Mailbox int
	Tick    time.Duration

	Display Display
	Status  writer.StatusWriter
	Metrics *metrics.Recorder
	Log     zerolog.Logger
}

// Totals is the engine's final account, handed over once it returned.
type Totals struct {
	Delivered uint64
	Overflows uint64
	Buffered  int
	State     relay.State
}

// Monitor is the relay's observer. Observe only enqueues; everything else
// happens on the goroutine running Run.
type Monitor struct {
	cfg    Config
	events chan relay.Event
	final  atomic.Pointer[Totals]

	dropped atomic.Uint64

	overflowLog zerolog.Logger

	// owned by Run
	delivered  uint64
	overflows  uint64
	buffered   int
	state      relay.State
	lastValue  byte
	pending    bool // progress not yet drawn
	overflowed bool // overflow since the last tick
	active     bool // delivery since the last tick
	idle       uint16

	written      bool
	lastSnap     status.Snapshot
	statusFailed bool

	metered struct {
		delivered uint64
		overflows uint64
		dropped   uint64
	}
}

func New(cfg Config) *Monitor {
	if cfg.Mailbox <= 0 {
		cfg.Mailbox = DefaultMailbox
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	return &Monitor{
		cfg:         cfg,
		events:      make(chan relay.Event, cfg.Mailbox),
		overflowLog: cfg.Log.Sample(&zerolog.BurstSampler{Burst: 5, Period: time.Second}),
	}
}

// Observe implements relay.Observer. It never waits: when the mailbox is
// full the event is dropped and counted.
func (m *Monitor) Observe(ev relay.Event) {
	select {
	case m.events <- ev:
	default:
		m.dropped.Add(1)
	}
}

// Dropped is the number of events lost to a full mailbox.
func (m *Monitor) Dropped() uint64 { return m.dropped.Load() }

// Settle records the engine's final totals. Call it after the engine
// returned and before cancelling Run's context; Run applies it last.
func (m *Monitor) Settle(t Totals) { m.final.Store(&t) }

// Run consumes events until ctx is cancelled, then publishes once more.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Tick)
	defer ticker.Stop()

	m.publish()

	for {
		select {
		case <-ctx.Done():
			m.drain()
			if t := m.final.Load(); t != nil {
				m.settle(*t)
			}
			m.flush()
			m.publish()
			return

		case ev := <-m.events:
			m.apply(ev)
			m.drain()
			m.flush()

		case <-ticker.C:
			m.tick()
		}
	}
}

// ------------------------------------------------------------
// Event handling
// ------------------------------------------------------------

func (m *Monitor) drain() {
	for {
		select {
		case ev := <-m.events:
			m.apply(ev)
		default:
			return
		}
	}
}

func (m *Monitor) apply(ev relay.Event) {
	switch ev.Kind {
	case relay.EventDelivered:
		m.delivered = ev.Count
		m.buffered = ev.Buffered
		m.lastValue = ev.Value
		m.pending = true
		m.active = true

	case relay.EventOverflow:
		m.flush()
		m.overflows = ev.Count
		m.buffered = ev.Buffered
		m.overflowed = true
		m.overflowLog.Warn().
			Uint64("dropped_total", ev.Count).
			Int("buffered", ev.Buffered).
			Msg("relay buffer overflow")
		if m.cfg.Display != nil {
			m.cfg.Display.Overflow(ev.Count)
		}

	case relay.EventState:
		m.setState(ev.State)
	}
}

func (m *Monitor) setState(s relay.State) {
	if s == m.state {
		return
	}
	m.state = s
	m.cfg.Log.Info().Str("state", s.String()).Msg("device state")
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.SetState(uint16(s))
	}
	m.publish()
}

func (m *Monitor) settle(t Totals) {
	if t.Delivered > m.delivered {
		m.delivered = t.Delivered
		m.pending = true
	}
	if t.Overflows > m.overflows {
		m.overflows = t.Overflows
	}
	m.buffered = t.Buffered
	m.setState(t.State)
}

// flush draws the coalesced progress line.
func (m *Monitor) flush() {
	if !m.pending {
		return
	}
	m.pending = false
	if m.cfg.Display != nil {
		m.cfg.Display.Progress(m.delivered, m.lastValue)
	}
}

func (m *Monitor) tick() {
	if m.active {
		m.idle = 0
	} else if m.idle < 0xffff {
		m.idle++
	}
	m.publish()
	m.active = false
	m.overflowed = false
}

// ------------------------------------------------------------
// Status and metrics
// ------------------------------------------------------------

func (m *Monitor) health() uint16 {
	switch m.state {
	case relay.Uninitialized, relay.Resetting, relay.UartMode:
		return status.HealthUnknown
	case relay.Stopped:
		return status.HealthDisabled
	}
	if m.overflowed {
		return status.HealthError
	}
	if m.idle >= status.StaleAfterSeconds {
		return status.HealthStale
	}
	return status.HealthOK
}

// snapshot is the status block content for the current totals.
func (m *Monitor) snapshot() status.Snapshot {
	return status.Snapshot{
		Health:         m.health(),
		State:          uint16(m.state),
		Delivered:      uint32(m.delivered),
		Overflows:      uint32(m.overflows),
		BufferOccupied: status.Saturate(uint64(m.buffered)),
		SecondsIdle:    m.idle,
		DroppedEvents:  status.Saturate(m.dropped.Load()),
	}
}

func (m *Monitor) publish() {
	m.meter()

	if m.cfg.Status == nil {
		return
	}
	snap := m.snapshot()
	if m.written && snap == m.lastSnap {
		return
	}

	if err := m.cfg.Status.WriteStatus(snap); err != nil {
		if !m.statusFailed {
			m.cfg.Log.Warn().Err(err).Msg("status write failed")
		}
		m.statusFailed = true
		m.written = false
		return
	}
	if m.statusFailed {
		m.cfg.Log.Info().Msg("status write recovered")
	}
	m.statusFailed = false
	m.written = true
	m.lastSnap = snap
}

func (m *Monitor) meter() {
	r := m.cfg.Metrics
	if r == nil {
		return
	}
	dropped := m.dropped.Load()

	r.AddDelivered(m.delivered - m.metered.delivered)
	r.AddOverflows(m.overflows - m.metered.overflows)
	r.AddDropped(dropped - m.metered.dropped)
	r.SetOccupancy(m.buffered)
	r.SetState(uint16(m.state))

	m.metered.delivered = m.delivered
	m.metered.overflows = m.overflows
	m.metered.dropped = dropped
}
