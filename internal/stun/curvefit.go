package stun

import "math"

// maxFitPoints bounds the fitter's point history; old points are
// dropped once the fit has more than enough of them to stay stable.
const maxFitPoints = 64

type fitPoint struct{ x, y float64 }

// ExpCurveFitter is an on-line least-squares fit of an exponential
// approach to a fixed asymptote: y = baseline + b*exp(c*x), c < 0.
// Optimizer uses it to model the fraction of the idle budget each epoch
// consumes (idle_iters / MaxIdleIters) rising toward the convergence
// threshold (baseline = 1.0) as successive improvements become harder
// to find.
//
// SPEC_FULL.md §9 leaves the exact sufficient-statistics formula
// unspecified beyond naming the terms (Σx, Σy, Σxy, Σx², Σx·y·ln(y-baseline));
// this implementation takes baseline as a known constant (rather than
// re-estimating it online) and fits z = ln(baseline - y) = ln(-b) + c*x
// by ordinary least squares over the retained points — a
// log-linearization valid whenever every y stays strictly below
// baseline, which holds for Optimizer's usage by construction.
type ExpCurveFitter struct {
	baseline float64
	points   []fitPoint

	degenerate bool
	b, c       float64
}

// NewExpCurveFitter returns an empty fitter approaching the given
// baseline (asymptote) from below.
func NewExpCurveFitter(baseline float64) *ExpCurveFitter {
	return &ExpCurveFitter{baseline: baseline, degenerate: true}
}

// Reset clears all accumulated points, keeping the configured baseline.
func (f *ExpCurveFitter) Reset() {
	f.points = f.points[:0]
	f.degenerate = true
	f.b, f.c = 0, 0
}

// Push incorporates one (x, y) observation and refits the curve. Points
// with y >= baseline are retained for the linear-interpolation fallback
// but excluded from the log-linear regression.
func (f *ExpCurveFitter) Push(x, y float64) {
	f.points = append(f.points, fitPoint{x, y})
	if len(f.points) > maxFitPoints {
		f.points = f.points[1:]
	}
	f.refit()
}

func (f *ExpCurveFitter) refit() {
	var n, sx, sz, sxz, sxx float64
	for _, p := range f.points {
		diff := f.baseline - p.y
		if diff <= 0 {
			continue
		}
		z := math.Log(diff)
		n++
		sx += p.x
		sz += z
		sxz += p.x * z
		sxx += p.x * p.x
	}
	if n < 2 {
		f.degenerate = true
		return
	}
	denom := n*sxx - sx*sx
	if math.Abs(denom) < 1e-12 {
		f.degenerate = true
		return
	}
	c := (n*sxz - sx*sz) / denom
	if c >= 0 {
		// Not a decay toward the baseline; fall back to interpolation.
		f.degenerate = true
		return
	}
	logNegB := (sz - c*sx) / n
	f.b = -math.Exp(logNegB)
	f.c = c
	f.degenerate = false
}

// At returns the fitted value at x, or a linear interpolation between
// the last two pushed points when the fit is degenerate (fewer than
// two usable points, or a non-decaying slope).
func (f *ExpCurveFitter) At(x float64) float64 {
	if !f.degenerate {
		return f.baseline + f.b*math.Exp(f.c*x)
	}
	n := len(f.points)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return f.points[0].y
	default:
		p1, p2 := f.points[n-2], f.points[n-1]
		if p2.x == p1.x {
			return p2.y
		}
		t := (x - p1.x) / (p2.x - p1.x)
		return p1.y + t*(p2.y-p1.y)
	}
}
