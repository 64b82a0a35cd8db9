package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_synced_total",
			Help: "Total number of lead sync attempts by outcome",
		},
		[]string{"status"},
	)

	leadsCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured via the API",
		},
	)

	crmErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_errors_total",
			Help: "Total number of CRM integration errors by kind",
		},
		[]string{"kind"},
	)

	agentMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_matches_total",
			Help: "Total number of LLM agent-match requests served",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

// RecordLeadSync counts one sync attempt. status is "success" or the
// outcome code.
func RecordLeadSync(status string) {
	leadsSynced.WithLabelValues(status).Inc()
}

func RecordLeadCaptured() {
	leadsCaptured.Inc()
}

func RecordCRMError(kind string) {
	crmErrors.WithLabelValues(kind).Inc()
}

func RecordAgentMatch() {
	agentMatches.Inc()
}
