package services

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modkeeper_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modkeeper_http_request_errors_total",
			Help: "HTTP requests answered with status >= 400",
		},
		[]string{"path"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modkeeper_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	operationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modkeeper_operations_total",
			Help: "Mutating operations by outcome",
		},
		[]string{"operation", "result"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modkeeper_operation_duration_seconds",
			Help:    "Duration of mutating operations including gate wait",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"operation"},
	)

	downloadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modkeeper_download_bytes_total",
			Help: "Bytes downloaded for mods and runtime support",
		},
	)

	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestErrors)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(operationCount)
	prometheus.MustRegister(operationDuration)
	prometheus.MustRegister(downloadBytes)
}

func IncrementRequestCount(path string) {
	totalRequests.Add(1)
	requestCount.WithLabelValues(path).Inc()
}

func IncrementErrorCount(path string) {
	totalErrors.Add(1)
	requestErrors.WithLabelValues(path).Inc()
}

func RecordRequestDuration(path string, seconds float64) {
	requestDuration.WithLabelValues(path).Observe(seconds)
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}

/**
 * Record the outcome of a mutating operation
 * @param {string} op - Operation name (install/uninstall/toggle/install-api/toggle-api)
 * @param {time.Time} start - When the caller entered the operation
 * @param {error} err - Operation result
 */
func observeOperation(op string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	operationCount.WithLabelValues(op, result).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
