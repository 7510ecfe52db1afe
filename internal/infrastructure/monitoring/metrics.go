package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for one engine client.
type Metrics struct {
	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Shared-memory metrics
	SegmentsCreated prometheus.Counter
	SegmentBytes    prometheus.Counter

	// Engine lifecycle metrics
	EngineStarts prometheus.Counter
	EngineStops  prometheus.Counter
}

// New creates a metrics collector and registers it with reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pivot_commands_total",
				Help: "Engine commands sent, by operation and outcome",
			},
			[]string{"op", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pivot_command_duration_seconds",
				Help:    "Command round-trip duration",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"op"},
		),
		SegmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pivot_segments_created_total",
			Help: "Shared-memory segments created",
		}),
		SegmentBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pivot_segment_bytes_total",
			Help: "Bytes mapped into created shared-memory segments",
		}),
		EngineStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pivot_engine_starts_total",
			Help: "Engine process starts",
		}),
		EngineStops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pivot_engine_stops_total",
			Help: "Engine process stops",
		}),
	}

	reg.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.SegmentsCreated,
		m.SegmentBytes,
		m.EngineStarts,
		m.EngineStops,
	)
	return m
}

// ObserveCommand records one command round trip.
func (m *Metrics) ObserveCommand(op string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CommandsTotal.WithLabelValues(op, status).Inc()
	m.CommandDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveSegment records one created segment.
func (m *Metrics) ObserveSegment(size int) {
	m.SegmentsCreated.Inc()
	m.SegmentBytes.Add(float64(size))
}
