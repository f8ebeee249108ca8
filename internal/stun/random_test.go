package stun

import "testing"

func TestRandomSource_Float64Range(t *testing.T) {
	r := NewRandomSource(1)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0,1)", v)
		}
	}
}

func TestRandomSource_IntNInclusive(t *testing.T) {
	r := NewRandomSource(1)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := r.IntN(3)
		if v < 0 || v > 3 {
			t.Fatalf("IntN(3) = %d, want [0,3]", v)
		}
		seen[v] = true
	}
	for i := 0; i <= 3; i++ {
		if !seen[i] {
			t.Errorf("IntN(3) never produced %d across 2000 draws", i)
		}
	}
}

func TestRandomSource_Reseed(t *testing.T) {
	r1 := NewRandomSource(42)
	r2 := NewRandomSource(7)
	r2.Reseed(42)

	for i := 0; i < 50; i++ {
		a, b := r1.Float64(), r2.Float64()
		if a != b {
			t.Fatalf("Reseed(42) diverged from NewRandomSource(42) at draw %d: %v != %v", i, a, b)
		}
	}
}
