package stun

// OptimizerJob is one optimization trajectory: mutate -> cost -> STUN
// accept -> update temperature, repeated batch_size times per Update
// call. It owns every piece of per-trajectory state (ScheduleParams is
// the one exception — it's shared, immutable, referenced by pointer).
type OptimizerJob struct {
	sp        *ScheduleParams
	rng       *RandomSource
	mutator   *Mutator
	makespan  *Makespan
	temp      *Temperature
	core      *STUNCore
	batchSize int

	iter int64
}

// JobConfig carries the tuning parameters an OptimizerJob needs to
// construct its Temperature driver and STUNCore.
type JobConfig struct {
	BatchSize     int
	BetaScale     float64
	StunWindow    int
	RestartPeriod int64
	Gamma         float64
}

// NewOptimizerJob builds a job seeded with the given PRNG seed, starting
// from sp's InitialSchedule.
func NewOptimizerJob(sp *ScheduleParams, seed int64, cfg JobConfig) *OptimizerJob {
	rng := NewRandomSource(seed)
	mutator := NewMutator(sp, rng)
	makespan := NewMakespan(sp)
	temp := NewTemperature(cfg.BetaScale, cfg.StunWindow, cfg.RestartPeriod)
	initial := InitialSchedule(sp)
	core := NewSTUNCore(sp, mutator, makespan, temp, rng, cfg.Gamma, initial)

	return &OptimizerJob{
		sp:        sp,
		rng:       rng,
		mutator:   mutator,
		makespan:  makespan,
		temp:      temp,
		core:      core,
		batchSize: cfg.BatchSize,
	}
}

// Update runs batchSize STUN iterations. It never blocks on anything
// but CPU — safe to call concurrently with other jobs' Update calls as
// long as each job is only ever driven by one goroutine at a time.
func (j *OptimizerJob) Update() {
	for i := 0; i < j.batchSize; i++ {
		j.iter++
		j.core.Iterate(j.iter)
	}
}

// BestSchedule returns the job's lowest-energy schedule found so far.
func (j *OptimizerJob) BestSchedule() Schedule { return j.core.BestSchedule() }

// BestEnergy returns the job's lowest makespan found so far.
func (j *OptimizerJob) BestEnergy() float64 { return j.core.BestEnergy() }

// Beta returns the job's current inverse temperature, for diagnostics.
func (j *OptimizerJob) Beta() float64 { return j.temp.Beta() }

// Reset re-seeds the job to a fresh InitialSchedule, resets beta to its
// initial value, and resets the best-so-far to the initial schedule's
// energy. The PRNG sequence continues rather than re-seeding — only
// Reseed changes that.
func (j *OptimizerJob) Reset() {
	j.temp.Reset()
	j.iter = 0
	initial := InitialSchedule(j.sp)
	j.core.Reset(initial)
}

// Reseed draws a new PRNG seed from the current sequence and re-seeds,
// leaving current/best/target schedule state untouched.
func (j *OptimizerJob) Reseed() {
	newSeed := j.rng.r.Int63()
	j.rng.Reseed(newSeed)
}
