// Package metrics holds the prometheus collectors exported on the metrics endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sourceflow"

// Request operations counted by RecordOperation
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationNote   = "note"
)

var (
	httpRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Counter of HTTP requests by route and status code.",
		}, []string{"method", "route", "code"})

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Bucketed histogram of HTTP request handling time.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"method", "route"})

	requestOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "operations_total",
			Help:      "Counter of successful sourcing request writes.",
		}, []string{"operation"})

	requestsByStatusGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_by_status",
			Help:      "Number of sourcing requests in each status at the last digest.",
		}, []string{"status"})
)

func init() {
	prometheus.MustRegister(httpRequestsCounter)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(requestOperationsCounter)
	prometheus.MustRegister(requestsByStatusGauge)
}

// ObserveHTTP records one handled HTTP request
func ObserveHTTP(method, route string, code int, duration time.Duration) {
	httpRequestsCounter.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation counts a successful write
func RecordOperation(operation string) {
	requestOperationsCounter.WithLabelValues(operation).Inc()
}

// SetRequestsByStatus publishes the latest per-status counts
func SetRequestsByStatus(counts []domain.StatusCount) {
	for _, c := range counts {
		requestsByStatusGauge.WithLabelValues(c.StatusName).Set(float64(c.Count))
	}
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
