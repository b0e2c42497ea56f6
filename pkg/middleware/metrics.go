package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics creates a middleware that records Prometheus request metrics: a
// request counter labeled by method and status and a latency histogram
// labeled by method. Requests that fail with an error count as status 500.
func Metrics(reg prometheus.Registerer, namespace string) Middleware {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests processed.",
	}, []string{"method", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	reg.MustRegister(requests, latency)

	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			start := time.Now()
			res, err := next.Handle(r)

			status := http.StatusInternalServerError
			if err == nil {
				status = res.Status()
			}
			requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			latency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			return res, err
		})
	}
}

// MetricsHandler returns an HTTP handler exposing the metrics gathered in
// the given registry, for mounting on a diagnostics endpoint.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
