package histogram

import "testing"

func TestHistogram_AddAndBuckets(t *testing.T) {
	h := New(10)
	h.Add(5)
	h.Add(12)
	h.Add(13)
	h.Add(25)

	buckets := h.Buckets()
	if len(buckets) != 3 {
		t.Fatalf("len(Buckets()) = %d, want 3", len(buckets))
	}
	if buckets[0].Low != 0 || buckets[0].Count != 1 {
		t.Errorf("bucket[0] = %+v, want Low=0 Count=1", buckets[0])
	}
	if buckets[1].Low != 10 || buckets[1].Count != 2 {
		t.Errorf("bucket[1] = %+v, want Low=10 Count=2", buckets[1])
	}
	if buckets[2].Low != 20 || buckets[2].Count != 1 {
		t.Errorf("bucket[2] = %+v, want Low=20 Count=1", buckets[2])
	}
}

func TestHistogram_QuantileMonotone(t *testing.T) {
	h := New(1)
	for i := 0; i < 100; i++ {
		h.Add(float64(i))
	}
	prev := -1.0
	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0} {
		got := h.Quantile(p)
		if got < prev {
			t.Errorf("Quantile(%v) = %v, want >= previous %v", p, got, prev)
		}
		prev = got
	}
}

func TestHistogram_EmptyQuantileIsZero(t *testing.T) {
	h := New(5)
	if got := h.Quantile(0.5); got != 0 {
		t.Errorf("Quantile(0.5) on empty histogram = %v, want 0", got)
	}
}

func TestHistogram_Clear(t *testing.T) {
	h := New(5)
	h.Add(1)
	h.Add(2)
	h.Clear()
	if !h.Empty() {
		t.Errorf("Empty() after Clear = false, want true")
	}
	if h.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", h.Len())
	}
}
