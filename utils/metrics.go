package utils

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// Notification dispatcher
	NotifyJobsEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_jobs_enqueued_total",
			Help: "New-post notification jobs enqueued",
		},
	)
	NotifyBatchesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_batches_sent_total",
			Help: "Recipient batches submitted to the mail provider",
		},
	)
	NotifyJobsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_jobs_failed_total",
			Help: "Notification jobs dropped after exhausting retries",
		},
	)

	metricsOnce sync.Once
)

// MetricsHandler serves the /metrics endpoint.
var MetricsHandler = promhttp.Handler

// InitMetrics registers all collectors. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RequestLatency)
		prometheus.MustRegister(NotifyJobsEnqueued)
		prometheus.MustRegister(NotifyBatchesSent)
		prometheus.MustRegister(NotifyJobsFailed)
	})
}
