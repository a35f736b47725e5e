package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sessionsStarted tracks activated restocking sessions.
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_started_total",
		Help: "Total number of restocking sessions activated",
	})

	// sessionsSettled tracks settled sessions by outcome.
	sessionsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_settled_total",
		Help: "Total number of settled sessions by outcome",
	}, []string{"outcome"}) // outcome: restocked, no_action, degraded, error

	// restockAttempts tracks automatic restock calls by result.
	restockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_restock_attempts_total",
		Help: "Total number of automatic restock attempts by result",
	}, []string{"result"})

	// sessionDuration tracks activation-to-settlement time.
	sessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_duration_seconds",
		Help:    "Time from session activation to settlement",
		Buckets: []float64{1, 5, 10, 15, 20, 30, 60, 120},
	})
)
