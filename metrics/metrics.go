package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prode"

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Standings Metrics
var (
	StandingsComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "standings_computations_total",
			Help:      "Standings lookups by cache outcome",
		},
		[]string{"cache"},
	)

	StandingsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "standings_compute_duration_seconds",
			Help:      "Time spent fetching and ranking a competition",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		},
	)

	WinnerChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "winner_changes_total",
			Help:      "Number of times a stored competition winner was replaced",
		},
	)

	BetsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_scored_total",
			Help:      "Bets scored on result entry, by awarded points",
		},
		[]string{"points"},
	)

	EventPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Winner change events that failed to publish",
		},
	)
)
