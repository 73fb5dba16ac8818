package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Publish metrics
	PublishesTotal       *prometheus.CounterVec
	ArtifactBytesWritten *prometheus.CounterVec

	// Download metrics
	DownloadsTotal *prometheus.CounterVec

	// Index metrics
	IndexPackages prometheus.Gauge
	IndexPlugins  prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests  int64
	TotalErrors    int64
	TotalPublishes int64
	TotalDownloads int64
	TotalDuration  float64 // sum of all request durations
	RequestCount   int64   // count for averaging
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
			[]string{"method", "path"},
		),

		// Publish metrics
		PublishesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_publishes_total",
				Help: "Total number of artifact publishes",
			},
			[]string{"kind", "status"},
		),
		ArtifactBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_artifact_bytes_written_total",
				Help: "Total artifact bytes written to storage",
			},
			[]string{"kind"},
		),

		// Download metrics
		DownloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_downloads_total",
				Help: "Total number of artifact downloads served",
			},
			[]string{"kind"},
		),

		// Index metrics
		IndexPackages: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "registry_index_packages",
				Help: "Number of packages in the registry index",
			},
		),
		IndexPlugins: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "registry_index_plugins",
				Help: "Number of plugins in the registry index",
			},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "registry_uptime_seconds",
				Help: "Registry uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Handler returns the exposition handler for this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordPublish records a publish attempt
func (m *Metrics) RecordPublish(kind, status string, size int64) {
	m.PublishesTotal.WithLabelValues(kind, status).Inc()
	if status == "ok" && size > 0 {
		m.ArtifactBytesWritten.WithLabelValues(kind).Add(float64(size))
	}

	m.mu.Lock()
	m.snapshot.TotalPublishes++
	m.mu.Unlock()
}

// RecordDownload records a served artifact download
func (m *Metrics) RecordDownload(kind string) {
	m.DownloadsTotal.WithLabelValues(kind).Inc()

	m.mu.Lock()
	m.snapshot.TotalDownloads++
	m.mu.Unlock()
}

// SetIndexSize updates the index entry gauges
func (m *Metrics) SetIndexSize(packages, plugins int) {
	m.IndexPackages.Set(float64(packages))
	m.IndexPlugins.Set(float64(plugins))
}

// Snapshot returns a copy of the current snapshot values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
