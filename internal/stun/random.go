package stun

import (
	"math/rand"
)

// RandomSource is a seedable uniform PRNG. Each OptimizerJob owns one;
// PRNGs are never shared across jobs (SPEC_FULL.md §5).
type RandomSource struct {
	r *rand.Rand
}

// NewRandomSource creates a PRNG seeded with the given value. Two
// RandomSources built from the same seed produce identical sequences.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniformly distributed value in [0, 1).
func (s *RandomSource) Float64() float64 { return s.r.Float64() }

// IntN returns a uniformly distributed integer in [0, n] inclusive.
// n must be >= 0.
func (s *RandomSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n + 1)
}

// Reseed replaces the underlying sequence with a fresh one derived from
// seed, without allocating a new RandomSource — used by
// OptimizerJob.Reseed.
func (s *RandomSource) Reseed(seed int64) {
	s.r = rand.New(rand.NewSource(seed))
}
