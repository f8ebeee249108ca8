package stun

import "sort"

// Mutator produces a neighboring valid schedule in place by applying two
// independent moves in sequence: an adjacent task swap (only when it
// preserves topological order) and an agent reassignment (always
// valid). It shares its RandomSource with the rest of the job so a
// single PRNG sequence drives both mutation and STUN acceptance.
type Mutator struct {
	sp  *ScheduleParams
	rng *RandomSource
}

// NewMutator builds a Mutator over sp, drawing from rng.
func NewMutator(sp *ScheduleParams, rng *RandomSource) *Mutator {
	return &Mutator{sp: sp, rng: rng}
}

// Mutate rewrites s in place into a neighboring valid schedule.
func (m *Mutator) Mutate(s Schedule) {
	m.swapAdjacent(s)
	m.reassignAgent(s)
}

// swapAdjacent picks i in [1, len-1] and swaps items i-1, i iff the
// later task does not depend on the earlier one. Single-task schedules
// have no valid index and are skipped.
func (m *Mutator) swapAdjacent(s Schedule) {
	n := len(s)
	if n < 2 {
		return
	}
	i := 1 + m.rng.IntN(n-2)
	a := s[i].TaskID
	b := s[i-1].TaskID

	deps := m.sp.Dependencies(a)
	idx := sort.SearchInts(deps, b)
	dependsOnPrev := idx < len(deps) && deps[idx] == b
	if !dependsOnPrev {
		s[i], s[i-1] = s[i-1], s[i]
	}
}

// reassignAgent picks a random item and assigns it a random eligible
// agent. Always produces a valid schedule.
func (m *Mutator) reassignAgent(s Schedule) {
	n := len(s)
	if n == 0 {
		return
	}
	i := m.rng.IntN(n - 1)
	t := s[i].TaskID
	avail := m.sp.AvailableAgents(t)
	k := m.rng.IntN(len(avail) - 1)
	s[i].AgentID = avail[k]
}
