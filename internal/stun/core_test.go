package stun

import "testing"

func TestSTUNCore_NeverWorsensBest(t *testing.T) {
	sp := linearChainParams(t)
	rng := NewRandomSource(99)
	mutator := NewMutator(sp, rng)
	makespan := NewMakespan(sp)
	temp := NewTemperature(1e-4, 100, 0)
	initial := InitialSchedule(sp)
	core := NewSTUNCore(sp, mutator, makespan, temp, rng, 0.5, initial)

	best := core.BestEnergy()
	for i := int64(1); i <= 5000; i++ {
		core.Iterate(i)
		if core.BestEnergy() > best {
			t.Fatalf("iteration %d: best energy regressed from %v to %v", i, best, core.BestEnergy())
		}
		best = core.BestEnergy()
	}
}

func TestSTUNCore_ImprovesOverManyIterationsOnNonTrivialProject(t *testing.T) {
	sp := fanOutParams(t)
	rng := NewRandomSource(7)
	mutator := NewMutator(sp, rng)
	makespan := NewMakespan(sp)
	temp := NewTemperature(1e-4, 200, 0)
	initial := InitialSchedule(sp)
	core := NewSTUNCore(sp, mutator, makespan, temp, rng, 0.5, initial)

	start := core.BestEnergy()
	for i := int64(1); i <= 20000; i++ {
		core.Iterate(i)
	}
	if core.BestEnergy() > start {
		t.Errorf("BestEnergy() = %v, want <= starting energy %v", core.BestEnergy(), start)
	}
}

func TestSTUNCore_Reset(t *testing.T) {
	sp := linearChainParams(t)
	rng := NewRandomSource(1)
	mutator := NewMutator(sp, rng)
	makespan := NewMakespan(sp)
	temp := NewTemperature(1e-4, 100, 0)
	initial := InitialSchedule(sp)
	core := NewSTUNCore(sp, mutator, makespan, temp, rng, 0.5, initial)

	for i := int64(1); i <= 1000; i++ {
		core.Iterate(i)
	}
	core.Reset(initial)
	want := makespan.Compute(initial)
	if core.BestEnergy() != want {
		t.Errorf("BestEnergy() after Reset = %v, want %v", core.BestEnergy(), want)
	}
}
