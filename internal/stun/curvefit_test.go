package stun

import (
	"math"
	"testing"
)

func TestExpCurveFitter_RecoversKnownCurve(t *testing.T) {
	const baseline = 200_000.0
	f := NewExpCurveFitter(baseline)

	// y = baseline - 150000*exp(-0.2*x)
	for x := 0.0; x <= 20; x++ {
		y := baseline - 150_000*math.Exp(-0.2*x)
		f.Push(x, y)
	}

	if f.degenerate {
		t.Fatalf("expected a converged fit, got degenerate")
	}
	got := f.At(25)
	want := baseline - 150_000*math.Exp(-0.2*25)
	if math.Abs(got-want) > want*0.05+1 {
		t.Errorf("At(25) = %v, want close to %v", got, want)
	}
}

func TestExpCurveFitter_DegenerateFallsBackToInterpolation(t *testing.T) {
	f := NewExpCurveFitter(100)
	f.Push(0, 30)
	f.Push(1, 20) // moving away from the baseline: non-decaying slope

	if !f.degenerate {
		t.Fatalf("expected degenerate fit for a non-decaying pair of points")
	}
	got := f.At(2)
	if got != 10 {
		t.Errorf("At(2) = %v, want 10 (linear extrapolation)", got)
	}
}

func TestExpCurveFitter_SinglePointReturnsThatValue(t *testing.T) {
	f := NewExpCurveFitter(100)
	f.Push(5, 42)
	if got := f.At(0); got != 42 {
		t.Errorf("At(0) = %v, want 42", got)
	}
}

func TestExpCurveFitter_EmptyReturnsZero(t *testing.T) {
	f := NewExpCurveFitter(100)
	if got := f.At(0); got != 0 {
		t.Errorf("At(0) = %v, want 0", got)
	}
}

func TestExpCurveFitter_PointsAtOrAboveBaselineAreExcludedFromFit(t *testing.T) {
	f := NewExpCurveFitter(10)
	for x := 0.0; x < 5; x++ {
		f.Push(x, 10) // at baseline, diff == 0, must be skipped not logged
	}
	if !f.degenerate {
		t.Errorf("expected degenerate fit when no point is below baseline")
	}
}

func TestExpCurveFitter_ReverseBoundsHistory(t *testing.T) {
	f := NewExpCurveFitter(1000)
	for i := 0; i < maxFitPoints+10; i++ {
		f.Push(float64(i), float64(i))
	}
	if len(f.points) != maxFitPoints {
		t.Errorf("len(points) = %d, want %d", len(f.points), maxFitPoints)
	}
}

func TestExpCurveFitter_Reset(t *testing.T) {
	f := NewExpCurveFitter(100)
	f.Push(0, 10)
	f.Push(1, 50)
	f.Reset()
	if len(f.points) != 0 {
		t.Errorf("Reset left %d points", len(f.points))
	}
	if !f.degenerate {
		t.Errorf("Reset should restore degenerate state")
	}
	if got := f.At(0); got != 0 {
		t.Errorf("At(0) after Reset = %v, want 0", got)
	}
}
