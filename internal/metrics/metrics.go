package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "incident_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_status_changes_total",
			Help: "Total number of accepted incident status updates, by requested status",
		},
		[]string{"status"},
	)

	DomainErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_domain_errors_total",
			Help: "Total number of not found and validation errors returned to clients",
		},
		[]string{"kind"},
	)
)
