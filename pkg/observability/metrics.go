package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Import pipeline metrics
	ImportsTotal        *prometheus.CounterVec
	ImportDuration      *prometheus.HistogramVec
	BlockedDomainsTotal prometheus.Gauge

	// Database metrics
	DBConnectionsActive       prometheus.Gauge
	DBConnectionsIdle         prometheus.Gauge
	DBConnectionsWaitCount    prometheus.Gauge
	DBConnectionsWaitDuration prometheus.Gauge

	// Business metrics
	GroupsTotal      prometheus.Gauge
	RecipesTotal     *prometheus.GaugeVec
	CommentsTotal    prometheus.Gauge
	ActiveUsersTotal prometheus.Gauge
	APITokensActive  prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "potluck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "potluck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "potluck_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "potluck_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		// Import pipeline metrics
		ImportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "potluck_imports_total",
				Help: "Total number of recipe import attempts",
			},
			[]string{"status"},
		),
		ImportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "potluck_import_duration_seconds",
				Help:    "Recipe import duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		BlockedDomainsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_import_blocked_domains",
				Help: "Number of domains on the import blocklist",
			},
		),

		// Database metrics
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBConnectionsWaitCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_db_connections_wait_count",
				Help: "Total number of connections waited for",
			},
		),
		DBConnectionsWaitDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_db_connections_wait_duration_seconds",
				Help: "Total time spent waiting for connections",
			},
		),

		// Business metrics
		GroupsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_groups_total",
				Help: "Total number of groups",
			},
		),
		RecipesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "potluck_recipes_total",
				Help: "Total number of recipes by publication status",
			},
			[]string{"status"},
		),
		CommentsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_comments_total",
				Help: "Total number of comments",
			},
		),
		ActiveUsersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_active_users_total",
				Help: "Total number of active users",
			},
		),
		APITokensActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "potluck_api_tokens_active",
				Help: "Number of active API tokens",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.ImportsTotal,
		m.ImportDuration,
		m.BlockedDomainsTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
		m.DBConnectionsWaitCount,
		m.DBConnectionsWaitDuration,
		m.GroupsTotal,
		m.RecipesTotal,
		m.CommentsTotal,
		m.ActiveUsersTotal,
		m.APITokensActive,
	)

	return m
}

// UpdateDBStats copies connection pool stats into the DB gauges
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.DBConnectionsActive.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
	m.DBConnectionsWaitCount.Set(float64(stats.WaitCount))
	m.DBConnectionsWaitDuration.Set(stats.WaitDuration.Seconds())
}

// BusinessStats is a snapshot of table counts for the business gauges.
type BusinessStats struct {
	Groups           int64
	DraftRecipes     int64
	PublishedRecipes int64
	Comments         int64
	ActiveUsers      int64
	ActiveTokens     int64
}

// UpdateBusinessStats copies a count snapshot into the business gauges
func (m *Metrics) UpdateBusinessStats(stats BusinessStats) {
	m.GroupsTotal.Set(float64(stats.Groups))
	m.RecipesTotal.WithLabelValues("draft").Set(float64(stats.DraftRecipes))
	m.RecipesTotal.WithLabelValues("published").Set(float64(stats.PublishedRecipes))
	m.CommentsTotal.Set(float64(stats.Comments))
	m.ActiveUsersTotal.Set(float64(stats.ActiveUsers))
	m.APITokensActive.Set(float64(stats.ActiveTokens))
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status and size
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// Record request size
			if r.ContentLength > 0 {
				metrics.HTTPRequestSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(r.ContentLength))
			}

			// Serve the request
			next.ServeHTTP(rw, r)

			// Record metrics
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
