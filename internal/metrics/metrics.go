package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the clubd server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal prometheus.Counter
	LoginRejectsTotal  prometheus.Counter

	// Upload metrics.
	UploadsTotal     *prometheus.CounterVec
	UploadBytesTotal *prometheus.CounterVec

	// Content metrics.
	PostViewsTotal         prometheus.Counter
	ResourceDownloadsTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubd_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubd_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubd_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"reason"}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubd_auth_successes_total",
			Help: "Total number of successful logins.",
		}),

		LoginRejectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubd_login_ratelimit_rejects_total",
			Help: "Total number of login attempts rejected by the rate limiter.",
		}),

		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubd_uploads_total",
			Help: "Total number of file uploads.",
		}, []string{"kind", "status"}),

		UploadBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubd_upload_bytes_total",
			Help: "Total bytes of stored uploads.",
		}, []string{"kind"}),

		PostViewsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubd_news_views_total",
			Help: "Total number of news post view increments.",
		}),

		ResourceDownloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubd_resource_downloads_total",
			Help: "Total number of resource downloads.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clubd_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.LoginRejectsTotal,
		m.UploadsTotal,
		m.UploadBytesTotal,
		m.PostViewsTotal,
		m.ResourceDownloadsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncAuthFailure increments the auth failure counter for the given reason.
func (m *Metrics) IncAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// IncAuthSuccess increments the successful login counter.
func (m *Metrics) IncAuthSuccess() {
	m.AuthSuccessesTotal.Inc()
}

// IncLoginReject increments the login rate-limit rejection counter.
func (m *Metrics) IncLoginReject() {
	m.LoginRejectsTotal.Inc()
}

// ObserveUpload records an upload attempt, and its size when it succeeded.
func (m *Metrics) ObserveUpload(kind string, sizeBytes int64, ok bool) {
	status := "ok"
	if !ok {
		status = "rejected"
	}
	m.UploadsTotal.WithLabelValues(kind, status).Inc()
	if ok {
		m.UploadBytesTotal.WithLabelValues(kind).Add(float64(sizeBytes))
	}
}

// IncPostView increments the news view counter.
func (m *Metrics) IncPostView() {
	m.PostViewsTotal.Inc()
}

// IncResourceDownload increments the resource download counter.
func (m *Metrics) IncResourceDownload() {
	m.ResourceDownloadsTotal.Inc()
}
