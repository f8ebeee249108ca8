package stun

import "math"

// restartBoost multiplies beta on a restart-period tick, forcing a
// burst of re-exploration. The source leaves the constant unspecified
// beyond "> 1"; e is a conventional choice (SPEC_FULL.md §4.5 / Open Questions).
const restartBoost = math.E

// defaultBetaMin and defaultBetaMax bound beta so a pathological run of
// adjustments can't drive it to zero or overflow.
const (
	defaultBetaMin = 1e-6
	defaultBetaMax = 1e6
)

// defaultInitialBeta seeds every job's temperature driver before its
// first window of samples has been observed.
const defaultInitialBeta = 1.0

// Temperature maintains the adaptive inverse temperature (beta) that
// controls STUN acceptance. It tracks a running mean of the
// STUN-transformed energy over a window of samples and nudges beta to
// keep that mean near 0.03, as recommended by the STUN paper
// (Wenzel & Hamacher, 1999).
type Temperature struct {
	beta          float64
	betaScale     float64
	stunWindow    int
	restartPeriod int64
	betaMin       float64
	betaMax       float64

	avgS         float64
	sampleCount  int
	lastAverage  float64
}

// NewTemperature builds a Temperature driver from tuning parameters.
func NewTemperature(betaScale float64, stunWindow int, restartPeriod int64) *Temperature {
	return &Temperature{
		beta:          defaultInitialBeta,
		betaScale:     betaScale,
		stunWindow:    stunWindow,
		restartPeriod: restartPeriod,
		betaMin:       defaultBetaMin,
		betaMax:       defaultBetaMax,
	}
}

// Beta returns the current inverse temperature.
func (t *Temperature) Beta() float64 { return t.beta }

// LastAverageStun returns the mean STUN value over the last completed
// window, for diagnostics.
func (t *Temperature) LastAverageStun() float64 { return t.lastAverage }

// Reset restores beta and the running mean to their initial state —
// called by OptimizerJob.Reset.
func (t *Temperature) Reset() {
	t.beta = defaultInitialBeta
	t.avgS = 0
	t.sampleCount = 0
	t.lastAverage = 0
}

// Update incorporates a STUN-transformed energy sample and advances
// beta. iter is the job's global iteration counter (not the window
// counter) — it drives the restart-boost check only.
func (t *Temperature) Update(s float64, iter int64) {
	t.sampleCount++
	t.avgS += (s - t.avgS) / float64(t.sampleCount)

	if t.sampleCount >= t.stunWindow {
		if t.avgS > 0.03 {
			t.beta *= 1 + t.betaScale
		} else {
			t.beta /= 1 + t.betaScale
		}
		t.lastAverage = t.avgS
		t.avgS = 0
		t.sampleCount = 0
	}

	// iter == 0 means "no boost" (SPEC_FULL.md §9 Open Questions).
	if iter > 0 && t.restartPeriod > 0 && iter%t.restartPeriod == 0 {
		t.beta *= restartBoost
	}

	t.clamp()
}

func (t *Temperature) clamp() {
	if t.beta < t.betaMin {
		t.beta = t.betaMin
	}
	if t.beta > t.betaMax {
		t.beta = t.betaMax
	}
}
