package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "business_plan_ai_calls_total",
			Help: "Total number of generation service calls by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "business_plan_ai_call_duration_seconds",
			Help:    "Duration of generation service calls including retries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
		[]string{"purpose"},
	)

	AIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "business_plan_ai_retries_total",
			Help: "Total number of retried generation service calls by status code",
		},
		[]string{"status"},
	)

	BalancedFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "business_plan_balanced_fields_total",
			Help: "Total number of balanced plan fields by outcome",
		},
		[]string{"outcome"},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "business_plan_pipeline_runs_total",
			Help: "Total number of plan generation runs by outcome",
		},
		[]string{"outcome"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "business_plan_pipeline_duration_seconds",
			Help:    "Duration of a full plan generation run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 240, 480},
		},
	)

	FallbackPlans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "business_plan_fallback_total",
			Help: "Total number of runs that used the deterministic fallback document",
		},
	)

	DroppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "business_plan_dropped_events_total",
			Help: "Total number of progress events dropped because a stream subscriber was slow",
		},
	)
)
