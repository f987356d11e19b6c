// Package metrics holds the Prometheus collectors exported on /v1/metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taktivent_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taktivent_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_reviews_submitted_total",
			Help: "Reviews accepted, by parent kind and whether the submitter was signed in",
		},
		[]string{"kind", "attended"},
	)

	ReviewsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_reviews_rejected_total",
			Help: "Review submissions rejected by validation, by offending field",
		},
		[]string{"kind", "field"},
	)

	ReviewReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_review_replies_total",
			Help: "Organizer replies written, by review kind",
		},
		[]string{"kind"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taktivent_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taktivent_circuit_breaker_requests_total",
			Help: "Calls through a circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)
)

func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordReviewSubmitted(kind string, attended bool) {
	ReviewsSubmitted.WithLabelValues(kind, strconv.FormatBool(attended)).Inc()
}

func RecordReviewRejected(kind, field string) {
	ReviewsRejected.WithLabelValues(kind, field).Inc()
}
