// Package metrics provides Prometheus metrics for the bongo-server service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationRequests tracks generation requests by category and outcome.
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bongo_generation_requests_total",
			Help: "Total number of generation requests",
		},
		[]string{"category", "outcome"},
	)

	// GenerationDuration tracks end-to-end generation latency by category.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bongo_generation_duration_seconds",
			Help:    "End-to-end duration of generation requests",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"category"},
	)

	// CandidateAttempts tracks provider endpoint attempts by strategy and outcome.
	CandidateAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bongo_candidate_attempts_total",
			Help: "Total number of provider endpoint attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// TokensConsumed tracks tokens debited from accounts.
	TokensConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bongo_tokens_consumed_total",
			Help: "Total number of tokens consumed",
		},
	)

	// TokensGranted tracks tokens credited to accounts, refunds included.
	TokensGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bongo_tokens_granted_total",
			Help: "Total number of tokens granted or refunded",
		},
	)

	// ActiveRealtimeSessions tracks connected balance-sync sessions.
	ActiveRealtimeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bongo_realtime_active_sessions",
			Help: "Number of currently connected realtime sessions",
		},
	)
)

// RecordGeneration records one generation request.
func RecordGeneration(category, outcome string, duration time.Duration) {
	GenerationRequests.WithLabelValues(category, outcome).Inc()
	GenerationDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordCandidateAttempt records one provider endpoint attempt.
func RecordCandidateAttempt(strategy, outcome string) {
	CandidateAttempts.WithLabelValues(strategy, outcome).Inc()
}

// RecordSessionConnected increments the realtime session gauge.
func RecordSessionConnected() {
	ActiveRealtimeSessions.Inc()
}

// RecordSessionDisconnected decrements the realtime session gauge.
func RecordSessionDisconnected() {
	ActiveRealtimeSessions.Dec()
}
