package histogram

import (
	"context"

	"github.com/stunsched/stunsched/internal/domain"
	"github.com/stunsched/stunsched/internal/predict"
	"github.com/stunsched/stunsched/internal/stun"
)

// defaultRuns matches the reference implementation's typical CLI
// default sample count for histogram mode.
const defaultRuns = 100

// SamplerConfig controls how a Sampler runs the optimizer repeatedly.
type SamplerConfig struct {
	// Runs is the number of repeated samples. Zero defaults to 100.
	Runs int
	// NumJobs is forwarded to predict.Driver for each individual run;
	// histogram mode intentionally keeps this small per-run (it already
	// gets its parallelism from running many samples) unless overridden.
	NumJobs int
	Tuning  stun.Tuning
}

// Sampler runs predict.Driver Runs times against perturbed copies of a
// project, collecting each run's makespan into a Histogram.
type Sampler struct {
	cfg SamplerConfig
	rng *stun.RandomSource
}

// NewSampler builds a Sampler seeded from seed.
func NewSampler(cfg SamplerConfig, seed int64) *Sampler {
	if cfg.Runs <= 0 {
		cfg.Runs = defaultRuns
	}
	if cfg.NumJobs <= 0 {
		cfg.NumJobs = 1
	}
	return &Sampler{cfg: cfg, rng: stun.NewRandomSource(seed)}
}

// Run executes cfg.Runs optimizations of perturbed copies of p and
// returns the resulting makespan histogram, with a bin width chosen
// as 1/50th of the unperturbed project's own optimized makespan (a
// reasonable default resolution absent a caller-specified bin size;
// see RunWithBinSize to pin it explicitly).
func (s *Sampler) Run(ctx context.Context, p *domain.Project) (*Histogram, error) {
	driver := predict.NewDriver(s.cfg.NumJobs)

	future, err := driver.StartScheduleOptimization(ctx, p, s.cfg.Tuning)
	if err != nil {
		return nil, err
	}
	result, ok := future.Wait(ctx)
	binSize := 1.0
	if ok && result.Schedule.MakespanSeconds > 0 {
		binSize = result.Schedule.MakespanSeconds / 50
	}
	return s.RunWithBinSize(ctx, p, binSize)
}

// RunWithBinSize is Run with an explicit histogram bin width.
func (s *Sampler) RunWithBinSize(ctx context.Context, p *domain.Project, binSize float64) (*Histogram, error) {
	h := New(binSize)
	driver := predict.NewDriver(s.cfg.NumJobs)

	for i := 0; i < s.cfg.Runs; i++ {
		perturbed := s.perturb(p)

		future, err := driver.StartScheduleOptimization(ctx, perturbed, s.cfg.Tuning)
		if err != nil {
			return nil, err
		}
		result, ok := future.Wait(ctx)
		if !ok {
			return h, ctx.Err()
		}
		h.Add(result.Schedule.MakespanSeconds)
	}
	return h, nil
}

// perturb returns a copy of p with every task's duration interval
// collapsed to a single value drawn uniformly from [DurationMin,
// DurationMax], the histogram-mode redraw the reference implementation
// performs per sample.
func (s *Sampler) perturb(p *domain.Project) *domain.Project {
	tasks := make([]domain.Task, len(p.Tasks))
	copy(tasks, p.Tasks)

	for i, task := range tasks {
		span := task.DurationMax - task.DurationMin
		drawn := task.DurationMin + s.rng.Float64()*span
		task.DurationMin = drawn
		task.DurationMax = drawn
		tasks[i] = task
	}

	return &domain.Project{
		Groups: p.Groups,
		Agents: p.Agents,
		Tasks:  tasks,
	}
}
