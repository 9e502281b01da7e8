package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pov_generator_tasks_created_total",
		Help: "Total number of generation tasks created",
	})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pov_generator_tasks_completed_total",
		Help: "Total number of generation tasks completed",
	})

	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pov_generator_tasks_failed_total",
		Help: "Total number of generation tasks failed",
	})

	StageCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pov_generator_stage_calls_total",
		Help: "Total number of pipeline stage invocations by stage and outcome",
	}, []string{"stage", "outcome"})

	PollAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pov_generator_video_poll_attempts_total",
		Help: "Total number of video status poll attempts",
	})

	WorkflowDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pov_generator_workflow_duration_seconds",
		Help:    "End-to-end workflow duration in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pov_generator_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)
