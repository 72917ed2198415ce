package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timeclock",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	attendanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "attendance_events_total",
		Help:      "Recorded check-ins and check-outs.",
	}, []string{"action"})
)

// observeRequest records one finished request. Unmatched requests share a
// single route label to keep cardinality bounded.
func observeRequest(r *http.Request, status int, elapsed time.Duration) {
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// HandleMetrics exposes the Prometheus registry.
func HandleMetrics() http.Handler {
	return promhttp.Handler()
}
