package predict

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stunsched/stunsched/internal/domain"
	"github.com/stunsched/stunsched/internal/obsmetrics"
	"github.com/stunsched/stunsched/internal/stun"
	"github.com/stunsched/stunsched/internal/stunevents"
)

// Driver is the single entry point the CLI and HTTP layers use to turn
// a validated project into a running optimization. It owns nothing
// across calls — every Start* call builds a fresh stun.Optimizer and
// runs it on its own goroutine, publishing to its own Bus.
type Driver struct {
	// NumJobs is the number of parallel STUN trajectories per run, one
	// seed each; it is forwarded to stun.OptimizerConfig unchanged.
	NumJobs int
}

// NewDriver returns a Driver with jobs sized to numJobs; zero or
// negative defaults to runtime.NumCPU().
func NewDriver(numJobs int) *Driver {
	if numJobs <= 0 {
		numJobs = runtime.NumCPU()
	}
	return &Driver{NumJobs: numJobs}
}

// Future is the handle to an in-flight or completed run: a run id, the
// event bus carrying its progress, and a result that becomes available
// exactly once, when the run finishes (by convergence or cancellation
// of the context the run was started with).
type Future struct {
	RunID string
	Bus   *stunevents.Bus

	done chan struct{}
	mu   sync.Mutex
	res  Result
}

// Result is what a Future yields once the run is done.
type Result struct {
	Schedule OptimizedSchedule
}

func (f *Future) deliver(r Result) {
	f.mu.Lock()
	f.res = r
	f.mu.Unlock()
	close(f.done)
}

// Wait blocks until the run completes or ctx is done, returning the
// result in the former case. Safe to call more than once, from more
// than one goroutine.
func (f *Future) Wait(ctx context.Context) (Result, bool) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.res, true
	case <-ctx.Done():
		return Result{}, false
	}
}

// Peek returns the result without blocking, reporting false if the run
// hasn't finished yet.
func (f *Future) Peek() (Result, bool) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.res, true
	default:
		return Result{}, false
	}
}

// StartScheduleOptimization runs the full STUN search over p and
// returns a Future whose Result carries the complete OptimizedSchedule
// (every task, its agent, its expected start time).
func (d *Driver) StartScheduleOptimization(ctx context.Context, p *domain.Project, tuning stun.Tuning) (*Future, error) {
	return d.start(ctx, p, tuning)
}

// StartPrediction runs the same search but the caller is presumed only
// interested in the resulting makespan (Result.Schedule.MakespanSeconds);
// the full item-by-item assignment is still populated since computing
// it costs nothing extra once the search has converged.
func (d *Driver) StartPrediction(ctx context.Context, p *domain.Project, tuning stun.Tuning) (*Future, error) {
	return d.start(ctx, p, tuning)
}

func (d *Driver) start(ctx context.Context, p *domain.Project, tuning stun.Tuning) (*Future, error) {
	sp, err := stun.NewScheduleParams(p)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	bus := stunevents.NewBus()
	future := &Future{
		RunID: runID,
		Bus:   bus,
		done:  make(chan struct{}),
	}

	seeds := make([]int64, d.NumJobs)
	seedSrc := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range seeds {
		seeds[i] = seedSrc.Int63()
	}

	inner := stunevents.NewBus()
	opt := stun.NewOptimizer(sp, stun.OptimizerConfig{Tuning: tuning, NumJobs: d.NumJobs}, seeds, inner)

	obsmetrics.RunsStarted.Inc()
	obsmetrics.ActiveJobs.Add(float64(d.NumJobs))
	start := time.Now()

	go d.watch(runID, inner, bus)
	go func() {
		defer obsmetrics.ActiveJobs.Add(-float64(d.NumJobs))
		defer obsmetrics.RunsCompleted.Inc()
		defer func() {
			obsmetrics.RunDuration.Observe(time.Since(start).Seconds())
			obsmetrics.DropRunLabels(runID)
		}()

		sched, energy := opt.Run(ctx)
		makespanSeconds := energy * sp.DurationMultiplier()
		future.deliver(Result{
			Schedule: toOptimizedSchedule(p, sp, sched, makespanSeconds),
		})
	}()

	return future, nil
}

// watch is the sole consumer of the optimizer's bus (in): it mirrors
// ScheduleProgress events into the per-run gauges and forwards every
// event, in order, to the Future's Bus (out) until Finished, then
// returns. It runs for the lifetime of one run.
func (d *Driver) watch(runID string, in, out *stunevents.Bus) {
	for {
		ev, ok := in.Next()
		if !ok {
			continue
		}
		out.Publish(ev)
		if ev.Progress != nil {
			obsmetrics.EpochsReached.WithLabelValues(runID).Set(float64(ev.Progress.Epoch))
			obsmetrics.EstimatedProgress.WithLabelValues(runID).Set(float64(ev.Progress.Progress))
			obsmetrics.CurrentMakespanSeconds.WithLabelValues(runID).Set(float64(ev.Progress.MakespanSeconds))
		}
		if ev.Simple != nil && ev.Simple.Kind == stunevents.Finished {
			return
		}
	}
}
