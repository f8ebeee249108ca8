package stun

import "math"

// STUNCore runs the per-iteration stochastic tunneling acceptance loop
// over a fixed-size neighborhood: mutate, cost, transform, accept.
// Its three schedule buffers (best, current, target) are allocated once
// and exchanged by swapping slice headers — never reallocated.
type STUNCore struct {
	sp       *ScheduleParams
	mutator  *Mutator
	makespan *Makespan
	temp     *Temperature
	rng      *RandomSource
	gamma    float64

	best    Schedule
	current Schedule
	target  Schedule

	bestE, bestS       float64
	currentE, currentS float64
	targetE, targetS   float64
}

// NewSTUNCore builds a STUNCore over an initial schedule. All buffers
// are copies of initial sized to ScheduleParams.NumTasks().
func NewSTUNCore(sp *ScheduleParams, mutator *Mutator, makespan *Makespan, temp *Temperature, rng *RandomSource, gamma float64, initial Schedule) *STUNCore {
	c := &STUNCore{
		sp:       sp,
		mutator:  mutator,
		makespan: makespan,
		temp:     temp,
		rng:      rng,
		gamma:    gamma,
		best:     initial.Clone(),
		current:  initial.Clone(),
		target:   initial.Clone(),
	}
	e := makespan.Compute(initial)
	c.bestE, c.currentE, c.targetE = e, e, e
	c.bestS, c.currentS, c.targetS = 0, 0, 0
	return c
}

// stunTransform is s(e) = 1 - exp(-gamma*(e - bestE)); s in [0,1] and
// monotone in e for e >= bestE.
func (c *STUNCore) stunTransform(e float64) float64 {
	return 1 - math.Exp(-c.gamma*(e-c.bestE))
}

// Reset reseeds all three buffers to a new schedule and clears the
// energies accordingly, without reallocating the buffers (they're
// copied into in place when the new schedule is the same length).
func (c *STUNCore) Reset(initial Schedule) {
	copy(c.best, initial)
	copy(c.current, initial)
	copy(c.target, initial)
	e := c.makespan.Compute(initial)
	c.bestE, c.currentE, c.targetE = e, e, e
	c.bestS, c.currentS, c.targetS = 0, 0, 0
}

// Iterate runs one STUN acceptance step. iteration is the job's global
// iteration counter, forwarded to Temperature.Update for the
// restart-period check; it is not incremented here.
func (c *STUNCore) Iterate(iteration int64) {
	copy(c.target, c.current)
	c.mutator.Mutate(c.target)
	c.targetE = c.makespan.Compute(c.target)

	if c.targetE < c.currentE {
		if c.targetE < c.bestE {
			c.bestE = c.targetE
			copy(c.best, c.target)
			c.bestS = 0
			c.currentS = c.stunTransform(c.currentE)
		}
		c.current, c.target = c.target, c.current
		c.currentE = c.targetE
		return
	}

	c.targetS = c.stunTransform(c.targetE)
	p := math.Exp(-c.temp.Beta() * (c.targetS - c.currentS))
	if p > 1 {
		p = 1
	}
	u := c.rng.Float64()
	if p >= u {
		c.current, c.target = c.target, c.current
		c.currentE = c.targetE
		c.currentS = c.targetS
	}
	c.temp.Update(c.currentS, iteration)
}

// BestSchedule returns the lowest-energy schedule found so far.
func (c *STUNCore) BestSchedule() Schedule { return c.best }

// BestEnergy returns the lowest makespan found so far.
func (c *STUNCore) BestEnergy() float64 { return c.bestE }
