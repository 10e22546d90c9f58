package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Token custody metrics
var (
	// TokenCapturesTotal tracks capture calls by result
	// (ok, invalid_input, not_found, encryption_failed, store_failed).
	TokenCapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_captures_total",
			Help: "Total token capture calls by result",
		},
		[]string{"result"},
	)

	// TokenRefreshesTotal tracks refresh calls by result
	// (cached, refreshed, no_refresh_token, corrupt, revoked, provider_unavailable, failed).
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Total access-token refresh calls by result",
		},
		[]string{"result"},
	)

	// GoogleTokenRequestDuration tracks latency of calls to the Google token
	// endpoint per grant type.
	GoogleTokenRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "google_token_request_duration_seconds",
			Help:    "Google token endpoint request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"grant_type"},
	)
)

// Database metrics
var (
	// DBQueryDuration tracks query latency by simplified query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks query errors by simplified query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)
