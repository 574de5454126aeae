// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mpurelay"

// Recorder owns the relay collectors on a private registry, so tests and
// multiple recorders never collide on the global one.
type Recorder struct {
	reg *prometheus.Registry

	delivered prometheus.Counter
	overflows prometheus.Counter
	dropped   prometheus.Counter
	occupancy prometheus.Gauge
	state     prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_delivered_total",
			Help:      "Bytes handed to the MIDI device.",
		}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overflows_total",
			Help:      "Bytes dropped because the relay buffer was full.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observer_dropped_total",
			Help:      "Relay events the monitor could not accept.",
		}),
		occupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_occupancy",
			Help:      "Bytes waiting in the relay buffer.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lifecycle_state",
			Help:      "Device lifecycle state (0 uninitialized .. 5 stopped).",
		}),
	}
	r.reg.MustRegister(r.delivered, r.overflows, r.dropped, r.occupancy, r.state)
	return r
}

func (r *Recorder) AddDelivered(n uint64) { r.delivered.Add(float64(n)) }
func (r *Recorder) AddOverflows(n uint64) { r.overflows.Add(float64(n)) }
func (r *Recorder) AddDropped(n uint64)   { r.dropped.Add(float64(n)) }
func (r *Recorder) SetOccupancy(n int)    { r.occupancy.Set(float64(n)) }
func (r *Recorder) SetState(s uint16)     { r.state.Set(float64(s)) }

// Handler exposes the recorder's registry in the text exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
