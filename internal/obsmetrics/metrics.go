// Package obsmetrics holds the module's Prometheus collectors. It is
// deliberately the only package that imports prometheus/client_golang:
// internal/stun stays metrics-free (SPEC_FULL.md §5/§6d — jobs read
// only their own private state), and internal/predict.Driver updates
// these from the stunevents it already produces rather than the STUN
// core reporting on itself.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Run Metrics ────────────────────────────────────────────────────────────

// RunsStarted counts every call to Driver.StartPrediction/
// StartScheduleOptimization.
var RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stunsched",
	Subsystem: "run",
	Name:      "started_total",
	Help:      "Total optimization runs started.",
})

// RunsCompleted counts runs that reached stunevents.Finished.
var RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stunsched",
	Subsystem: "run",
	Name:      "completed_total",
	Help:      "Total optimization runs that converged or were cancelled.",
})

// RunDuration observes wall-clock run duration in seconds.
var RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "stunsched",
	Subsystem: "run",
	Name:      "duration_seconds",
	Help:      "Wall-clock duration of a run from start to Finished.",
	Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // ~0.1s .. ~14min
})

// ActiveJobs tracks the number of OptimizerJob trajectories belonging to
// runs that have started and not yet finished, across all live runs.
var ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "stunsched",
	Subsystem: "optimizer",
	Name:      "active_jobs",
	Help:      "Number of OptimizerJob trajectories currently running.",
})

// ─── Per-run gauges, keyed by run id ────────────────────────────────────────

// EpochsReached tracks the current epoch (global-best improvement
// count) for a run.
var EpochsReached = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "stunsched",
	Subsystem: "optimizer",
	Name:      "epoch",
	Help:      "Current epoch (global-best improvement count) for a run.",
}, []string{"run_id"})

// IdleIterations is the per-run idle-iteration gauge. internal/predict
// does not set it: ScheduleProgress carries no idle count, so the
// series stays empty.
var IdleIterations = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "stunsched",
	Subsystem: "optimizer",
	Name:      "idle_iterations",
	Help:      "Iterations since the last global-best improvement, for a run.",
}, []string{"run_id"})

// EstimatedProgress tracks the curve-fitted completion fraction for a
// run, in [0, 1].
var EstimatedProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "stunsched",
	Subsystem: "optimizer",
	Name:      "estimated_progress",
	Help:      "Fitted completion fraction in [0,1] for a run.",
}, []string{"run_id"})

// CurrentMakespanSeconds tracks the run's current global-best makespan.
var CurrentMakespanSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "stunsched",
	Subsystem: "optimizer",
	Name:      "makespan_seconds",
	Help:      "Current global-best makespan in seconds, for a run.",
}, []string{"run_id"})

// DropRunLabels removes a completed run's per-run gauge series so the
// metric cardinality doesn't grow unbounded across a long-lived server.
func DropRunLabels(runID string) {
	EpochsReached.DeleteLabelValues(runID)
	IdleIterations.DeleteLabelValues(runID)
	EstimatedProgress.DeleteLabelValues(runID)
	CurrentMakespanSeconds.DeleteLabelValues(runID)
}
