package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	// Frame pipeline counters
	FramesTicked     atomic.Uint64
	FramesSkipped    atomic.Uint64
	PositionsChecked atomic.Uint64

	// Error counters
	IngestErrors atomic.Uint64

	// Persistence progress
	RowsWritten  atomic.Uint64
	LogBytes     atomic.Uint64
	PersistArmed atomic.Uint64 // 0 = disabled, 1 = enabled

	// Per-zone smoothed occupancy
	zoneValues *prometheus.GaugeVec

	// Prometheus collectors
	registry *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.registerPrometheusMetrics()

	return m
}

// registerPrometheusMetrics registers all metrics with Prometheus
func (m *Metrics) registerPrometheusMetrics() {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_frames_ticked_total",
			Help: "Total video frames ticked through the zone set",
		},
		func() float64 { return float64(m.FramesTicked.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_frames_skipped_total",
			Help: "Total stale or repeated detector frames dropped",
		},
		func() float64 { return float64(m.FramesSkipped.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_positions_checked_total",
			Help: "Total tracked-object positions tested against the zones",
		},
		func() float64 { return float64(m.PositionsChecked.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_ingest_errors_total",
			Help: "Total undecodable detector lines",
		},
		func() float64 { return float64(m.IngestErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_log_rows_written_total",
			Help: "Total rows appended to the count log",
		},
		func() float64 { return float64(m.RowsWritten.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_log_bytes_written",
			Help: "Total bytes written to the count log",
		},
		func() float64 { return float64(m.LogBytes.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "zonewatch_persistence_enabled",
			Help: "Persistence armed (0=disabled, 1=enabled)",
		},
		func() float64 { return float64(m.PersistArmed.Load()) },
	))

	m.zoneValues = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zonewatch_zone_occupancy",
			Help: "Smoothed object count per zone",
		},
		[]string{"zone"},
	)
	m.registry.MustRegister(m.zoneValues)
}

// SetZoneValue updates the smoothed occupancy gauge for one zone
func (m *Metrics) SetZoneValue(name string, value int) {
	m.zoneValues.WithLabelValues(name).Set(float64(value))
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server
func (m *Metrics) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
