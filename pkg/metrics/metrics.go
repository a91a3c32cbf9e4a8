// Package metrics exposes the Prometheus scrape endpoint and the HTTP
// request instruments recorded by the request middleware.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourhub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tourhub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of HTTP requests by method and route.",
		Buckets: []float64{
			0.005, 0.01, 0.025, 0.05,
			0.1, 0.25, 0.5, 1,
			2.5, 5, 10,
		},
	}, []string{"method", "route"})
)

// RecordHTTPRequest records one completed request. Route must be the matched
// route template, not the raw URL path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	httpRequests.With(prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}).Inc()
	httpLatency.With(prometheus.Labels{
		"method": method,
		"route":  route,
	}).Observe(latency.Seconds())
}
