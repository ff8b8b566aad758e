// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path", "status"},
	)

	WorkRequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "work_request_transitions_total",
			Help: "Total number of work request status transitions",
		},
		[]string{"transition"},
	)

	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_delivery_failures_total",
			Help: "Total number of notification inserts or pushes that failed",
		},
	)
)
