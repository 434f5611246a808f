package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance carries its own
// registry so tests can build them freely.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	ResolvesTotal *prometheus.CounterVec
	ResolveScore  prometheus.Histogram
	ActionsTotal  *prometheus.CounterVec

	// Catalog metrics
	AliasCount    prometheus.Gauge
	IndexRebuilds prometheus.Counter

	// Bus metrics
	BusMessages  *prometheus.CounterVec
	BusConnected prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_http_requests_total",
				Help: "Total number of status API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_http_request_duration_seconds",
				Help:    "Status API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ResolvesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_resolves_total",
				Help: "Application name resolutions by outcome",
			},
			[]string{"outcome"},
		),
		ResolveScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launcher_resolve_score",
				Help:    "Best similarity score per resolution",
				Buckets: prometheus.LinearBuckets(0.5, 0.05, 11),
			},
		),
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_actions_total",
				Help: "Engine actions (launch, close, switch) by outcome",
			},
			[]string{"kind", "outcome"},
		),

		AliasCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_alias_count",
				Help: "Aliases in the current index",
			},
		),
		IndexRebuilds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "launcher_index_rebuilds_total",
				Help: "Alias index rebuilds",
			},
		),

		BusMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_bus_messages_total",
				Help: "Bus envelopes by type and direction",
			},
			[]string{"type", "direction"},
		),
		BusConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_bus_connected",
				Help: "1 when the bus connection is up",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_uptime_seconds",
				Help: "Daemon uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records one status API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordResolve records a resolution outcome and its best score.
func (m *Metrics) RecordResolve(found bool, score float64) {
	m.ResolvesTotal.WithLabelValues(outcome(found)).Inc()
	m.ResolveScore.Observe(score)
}

// RecordAction records an engine action outcome.
func (m *Metrics) RecordAction(kind string, success bool) {
	m.ActionsTotal.WithLabelValues(kind, outcome(success)).Inc()
}

// RecordRebuild records an alias index rebuild and its resulting size.
func (m *Metrics) RecordRebuild(aliases int) {
	m.IndexRebuilds.Inc()
	m.AliasCount.Set(float64(aliases))
}

// RecordBusMessage records one bus envelope.
func (m *Metrics) RecordBusMessage(msgType, direction string) {
	m.BusMessages.WithLabelValues(msgType, direction).Inc()
}

// SetBusConnected flips the bus connectivity gauge.
func (m *Metrics) SetBusConnected(connected bool) {
	if connected {
		m.BusConnected.Set(1)
	} else {
		m.BusConnected.Set(0)
	}
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
