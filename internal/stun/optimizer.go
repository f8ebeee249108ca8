package stun

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stunsched/stunsched/internal/stunevents"
)

// OptimizerConfig controls how many parallel restarts Optimizer runs
// and how much of the host it's allowed to use at once.
type OptimizerConfig struct {
	Tuning Tuning
	// NumJobs is the number of independent STUN trajectories run in
	// parallel, each seeded differently. More jobs broaden the search
	// at the cost of CPU; zero or negative defaults to 1.
	NumJobs int
	// MaxConcurrent bounds how many jobs may be mid-Update at once,
	// independent of NumJobs — useful to cap CPU usage on a shared
	// host. Zero or negative means "no limit beyond NumJobs".
	MaxConcurrent int
}

// Optimizer is the multi-restart STUN coordinator (SPEC_FULL.md §4.9).
// It owns NumJobs independent OptimizerJob trajectories, tracks the
// global best schedule across all of them, detects convergence via a
// shared idle-iteration counter, and publishes progress to an
// EventBus fitted on-line with ExpCurveFitter.
type Optimizer struct {
	sp     *ScheduleParams
	cfg    OptimizerConfig
	jobs   []*OptimizerJob
	bus    *stunevents.Bus
	curve  *ExpCurveFitter

	mu           sync.Mutex
	bestSchedule Schedule
	bestEnergy   float64
	epoch        int32
	lastProgress float64 // highest progress fraction published so far

	idleIters int64 // atomic
}

// NewOptimizer builds an Optimizer over sp with one job per seed in
// seeds (len(seeds) determines NumJobs regardless of cfg.NumJobs).
// bus may be nil, in which case progress is computed but never
// published.
func NewOptimizer(sp *ScheduleParams, cfg OptimizerConfig, seeds []int64, bus *stunevents.Bus) *Optimizer {
	if cfg.NumJobs <= 0 {
		cfg.NumJobs = 1
	}
	jobCfg := cfg.Tuning.jobConfig()

	jobs := make([]*OptimizerJob, len(seeds))
	for i, seed := range seeds {
		jobs[i] = NewOptimizerJob(sp, seed, jobCfg)
	}

	initial := InitialSchedule(sp)
	initialMakespan := NewMakespan(sp)

	if cfg.Tuning.WarmupEpochs <= 0 {
		cfg.Tuning.WarmupEpochs = 5
	}

	// The curve fitter tracks idle_iters/max_idle_iters — the fraction
	// of the idle budget an epoch consumed — approaching the fixed
	// asymptote 1 (SPEC_FULL.md §4.8), not the raw iteration count.
	return &Optimizer{
		sp:           sp,
		cfg:          cfg,
		jobs:         jobs,
		bus:          bus,
		curve:        NewExpCurveFitter(1.0),
		bestSchedule: initial,
		bestEnergy:   initialMakespan.Compute(initial),
	}
}

// Reset reseeds every job and clears the global best/idle/epoch state,
// so the same Optimizer can drive a second independent search (e.g.
// after the underlying project's durations were recalibrated).
func (o *Optimizer) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, j := range o.jobs {
		j.Reset()
	}
	o.curve.Reset()
	o.bestSchedule = InitialSchedule(o.sp)
	o.bestEnergy = NewMakespan(o.sp).Compute(o.bestSchedule)
	o.epoch = 0
	o.lastProgress = 0
	atomic.StoreInt64(&o.idleIters, 0)
}

// BestSchedule returns the current global-best schedule.
func (o *Optimizer) BestSchedule() Schedule {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bestSchedule.Clone()
}

// BestEnergy returns the current global-best makespan, in normalized
// seconds — multiply by ScheduleParams.DurationMultiplier for wall time.
func (o *Optimizer) BestEnergy() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bestEnergy
}

// snapshot captures the fields a caller needs to fork the optimizer's
// current state into a fresh run without disturbing this one
// (SPEC_FULL.md §9 "fork the optimizer" design note) — e.g. to compare
// two tunings starting from the same incumbent schedule.
type snapshot struct {
	schedule Schedule
	energy   float64
	epoch    int32
}

func (o *Optimizer) snapshot() snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return snapshot{
		schedule: o.bestSchedule.Clone(),
		energy:   o.bestEnergy,
		epoch:    o.epoch,
	}
}

// considerResult folds one job's latest best into the global best,
// under the tie-break rule that an equal-energy challenger never
// displaces the incumbent (the older discovery is kept, so repeated
// equally-good restarts don't thrash the reported schedule). Returns
// true if the global best improved.
func (o *Optimizer) considerResult(s Schedule, e float64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if e >= o.bestEnergy {
		return false
	}
	o.bestSchedule = s.Clone()
	o.bestEnergy = e
	o.epoch++
	return true
}

// Run drives every job concurrently until ctx is cancelled or the
// shared idle-iteration counter reaches Tuning.MaxIdleIters without a
// global-best improvement, then returns the converged schedule and its
// makespan. Progress is published to the Optimizer's EventBus (if one
// was supplied) after every batch, whether or not it improved the
// global best, and reaches exactly 1 on the batch that triggers
// convergence.
func (o *Optimizer) Run(ctx context.Context) (Schedule, float64) {
	if o.bus != nil {
		o.bus.PublishSimple(stunevents.ScheduleOptimizationStart)
	}

	maxConcurrent := o.cfg.MaxConcurrent
	if maxConcurrent <= 0 || maxConcurrent > len(o.jobs) {
		maxConcurrent = len(o.jobs)
	}
	sem := make(chan struct{}, maxConcurrent)

	converged := make(chan struct{})
	var closeOnce sync.Once
	stop := func() { closeOnce.Do(func() { close(converged) }) }

	var wg sync.WaitGroup
	for _, job := range o.jobs {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					stop()
					return
				case <-converged:
					return
				case sem <- struct{}{}:
				}

				job.Update()
				<-sem

				improved := o.considerResult(job.BestSchedule(), job.BestEnergy())
				if improved {
					idle := atomic.SwapInt64(&o.idleIters, 0)
					o.recordEpoch(idle)
					o.publishProgress()
				} else {
					idle := atomic.AddInt64(&o.idleIters, int64(o.cfg.Tuning.BatchSize))
					o.publishProgress()
					if idle >= o.cfg.Tuning.MaxIdleIters {
						stop()
						return
					}
				}

				select {
				case <-ctx.Done():
					stop()
					return
				case <-converged:
					return
				default:
				}
			}
		}()
	}

	wg.Wait()

	final := o.snapshot()
	if o.bus != nil {
		o.bus.PublishSimple(stunevents.ScheduleOptimizationDone)
		o.bus.PublishComplete(stunevents.ScheduleComplete{
			MakespanSeconds: int64(final.energy * o.sp.DurationMultiplier()),
		})
	}
	return final.schedule, final.energy
}

// recordEpoch feeds the epoch that just completed (idle is the idle-
// iteration count it ran up before the improvement that ended it) into
// the curve fitter, keyed by that epoch's index. o.epoch has already
// been incremented by considerResult, so the completed epoch's index
// is o.epoch-1.
func (o *Optimizer) recordEpoch(idle int64) {
	o.mu.Lock()
	epoch := o.epoch
	o.mu.Unlock()

	p := float64(idle) / float64(o.cfg.Tuning.MaxIdleIters)
	o.curve.Push(float64(epoch-1), p)
}

// publishProgress emits the optimizer's current estimated_progress
// (SPEC_FULL.md §4.8): 0 during warmup, 1 once converged, otherwise an
// ExpCurveFitter-interpolated pseudo-progress combining how far the
// current epoch has burned through its idle budget (p) with how far
// through a typical epoch that represents (q, the fitted next-epoch
// value). The published value never decreases: an estimate below the
// highest one already published is raised to it.
func (o *Optimizer) publishProgress() {
	if o.bus == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	epoch := o.epoch
	energy := o.bestEnergy

	idle := atomic.LoadInt64(&o.idleIters)
	maxIdle := o.cfg.Tuning.MaxIdleIters

	var fraction float64
	switch {
	case idle >= maxIdle:
		fraction = 1
	case epoch < int32(o.cfg.Tuning.WarmupEpochs):
		fraction = 0
	default:
		p := float64(idle) / float64(maxIdle)
		q := o.curve.At(float64(epoch) + 1)
		if q <= 0 {
			fraction = p
		} else {
			fraction = o.curve.At(float64(epoch) + p/q)
		}
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
	}
	if fraction < o.lastProgress {
		fraction = o.lastProgress
	}
	o.lastProgress = fraction

	o.bus.PublishProgress(stunevents.ScheduleProgress{
		Progress:        float32(fraction),
		MakespanSeconds: int64(energy * o.sp.DurationMultiplier()),
		Epoch:           epoch,
	})
}
