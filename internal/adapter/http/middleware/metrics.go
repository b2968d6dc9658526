package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics records request counts, latency and in-flight requests.
type HTTPMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewHTTPMetrics creates the HTTP metrics and registers them with reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)

	return &HTTPMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "factoryledger",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "factoryledger",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "factoryledger",
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
	}
}

// Wrap records metrics for every request.
func (m *HTTPMetrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// routePattern prefers the matched chi pattern and falls back to
// normalizePath for requests served outside a chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// idRoutes lists paths with identifier segments, marked with braces.
var idRoutes = [][]string{
	strings.Split("/api/v1/chart/accounts/{id}/resolve", "/"),
	strings.Split("/api/v1/chart/{level}/{id}", "/"),
	strings.Split("/api/v1/ledger/reference/{ref}", "/"),
	strings.Split("/api/v1/bank-accounts/{id}/transactions", "/"),
	strings.Split("/api/v1/cash-books/{id}/transactions", "/"),
	strings.Split("/api/v1/subledgers/{kind}/{id}/verify", "/"),
}

// normalizePath collapses identifier segments to avoid high cardinality.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for _, route := range idRoutes {
		if len(route) != len(segments) {
			continue
		}
		matched := true
		for i, seg := range route {
			if strings.HasPrefix(seg, "{") {
				continue
			}
			if seg != segments[i] {
				matched = false
				break
			}
		}
		if matched {
			out := make([]string, len(route))
			for i, seg := range route {
				out[i] = seg
				if seg == "{level}" {
					out[i] = segments[i]
				}
			}
			return strings.Join(out, "/")
		}
	}
	return path
}
