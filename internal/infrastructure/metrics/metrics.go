package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notification outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Lead metrics
	leadSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Total number of accepted contact and inquiry submissions",
		},
		[]string{"kind"},
	)

	leadNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_notifications_total",
			Help: "Notification dispatch attempts by outcome",
		},
		[]string{"kind", "outcome"},
	)

	leadStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_changes_total",
			Help: "Status changes applied to contacts and inquiries",
		},
		[]string{"kind", "status"},
	)

	leadQuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_quotes_total",
			Help: "Quotes attached to inquiries",
		},
		[]string{"currency"},
	)
)

func RecordSubmission(kind string) {
	leadSubmissionsTotal.WithLabelValues(kind).Inc()
}

func RecordNotification(kind, outcome string) {
	leadNotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordStatusChange(kind, status string) {
	leadStatusChangesTotal.WithLabelValues(kind, status).Inc()
}

func RecordQuote(currency string) {
	leadQuotesTotal.WithLabelValues(currency).Inc()
}
