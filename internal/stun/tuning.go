package stun

// Tuning holds the STUN search parameters that are not derived from the
// project itself. The defaults mirror the values the reference
// implementation hard-codes; SPEC_FULL.md §6 exposes them as
// configuration so a deployment can trade wall-clock time for search
// quality without a rebuild.
type Tuning struct {
	// BatchSize is the number of STUN iterations an OptimizerJob runs
	// per Update call, amortizing goroutine scheduling overhead.
	BatchSize int
	// MaxIdleIters is the number of consecutive iterations without a
	// global-best improvement after which the search is considered
	// converged.
	MaxIdleIters int64
	// BetaScale controls how aggressively Temperature adjusts beta
	// each window.
	BetaScale float64
	// StunWindow is the number of samples Temperature averages before
	// adjusting beta.
	StunWindow int
	// Gamma is the STUN transform's tunneling strength.
	Gamma float64
	// RestartPeriod is the iteration interval at which beta gets a
	// multiplicative boost to force re-exploration. Zero disables it.
	RestartPeriod int64
	// WarmupEpochs is the number of global-best improvements Optimizer
	// waits for before it starts reporting a fitted progress estimate;
	// before that, too few points have reached ExpCurveFitter for the
	// fit to mean anything, so progress reports 0. Zero or negative
	// falls back to the spec default of 5.
	WarmupEpochs int
}

// DefaultTuning returns the tuning values used when a caller doesn't
// override them explicitly.
func DefaultTuning() Tuning {
	return Tuning{
		BatchSize:     5,
		MaxIdleIters:  200_000,
		BetaScale:     1e-4,
		StunWindow:    10_000,
		Gamma:         0.5,
		RestartPeriod: 1 << 20,
		WarmupEpochs:  5,
	}
}

func (t Tuning) jobConfig() JobConfig {
	return JobConfig{
		BatchSize:     t.BatchSize,
		BetaScale:     t.BetaScale,
		StunWindow:    t.StunWindow,
		RestartPeriod: t.RestartPeriod,
		Gamma:         t.Gamma,
	}
}
