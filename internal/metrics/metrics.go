// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayCalls counts AI gateway operations; outcome is "ok" or "fallback".
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepulse_gateway_calls_total",
			Help: "Total number of evaluation gateway calls",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepulse_gateway_retries_total",
			Help: "Rate-limited provider calls that were retried",
		},
		[]string{"operation"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hirepulse_gateway_duration_seconds",
			Help:    "Time spent in a gateway operation including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ActiveInterviews is the number of live interview machines.
	ActiveInterviews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hirepulse_active_interviews_current",
			Help: "Current number of live interview sessions",
		},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepulse_sessions_completed_total",
			Help: "Sessions emitted by the interview state machine",
		},
		[]string{"kind", "status"}, // kind: practice/exam
	)

	ProctoringEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepulse_proctoring_events_total",
			Help: "Proctoring signals recorded during exams",
		},
		[]string{"kind"},
	)

	WorkerFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepulse_worker_flushes_total",
			Help: "Persistence worker flush results",
		},
		[]string{"worker", "outcome"},
	)
)
