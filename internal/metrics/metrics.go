package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Duration of calls to the course backend in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource", "status"},
	)

	CoordinatorOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_coordinator_operations_total",
			Help: "Total number of coordinator operations by outcome",
		},
		[]string{"section", "operation", "outcome"},
	)

	StaleLoadsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_stale_loads_discarded_total",
			Help: "Loads whose result was dropped because a newer load had started",
		},
		[]string{"section"},
	)

	ConsoleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Console HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
