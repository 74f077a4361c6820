// Package metrics はPrometheusのコレクタを定義する
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kibalone_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kibalone_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	DispatchRoutes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kibalone_dispatch_routes_total",
			Help: "Classified prompts by route",
		},
		[]string{"route"},
	)

	PlanSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kibalone_plan_steps",
			Help:    "Number of steps per built plan",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	StepExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kibalone_step_executions_total",
			Help: "Executed plan steps by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kibalone_step_duration_seconds",
			Help:    "Plan step execution duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	ActiveExecutions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kibalone_active_executions",
			Help: "Number of plans currently executing",
		},
	)

	ServiceUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kibalone_service_up",
			Help: "Reachability of generation services from the last check (1 = up)",
		},
		[]string{"service"},
	)
)

// ステップ結果のラベル値
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeUnmapped = "unmapped"
)
