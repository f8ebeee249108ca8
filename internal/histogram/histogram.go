// Package histogram implements the repeated-sampling report that the
// reference implementation calls histogram mode: run the optimizer
// many times with task durations redrawn from their [min,max] interval
// each time, and report the distribution of resulting makespans.
// SPEC_FULL.md §6a notes this is a consumer of the core, not part of
// it; grounded on original_source/src/histogram.h (a fixed bin-width
// accumulator over integer values) adapted here to float64 makespans.
package histogram

import "sort"

// Bucket is one fixed-width bin: Low (inclusive) to High (exclusive),
// Middle their midpoint, and Count how many samples fell inside.
type Bucket struct {
	Count         int
	Low, Middle, High float64
}

// Histogram accumulates float64 samples into fixed-width bins, keyed by
// the bin's low edge — the Go analogue of the original's
// boost::flat_map<int32,int32> keyed the same way.
type Histogram struct {
	binSize float64
	bins    map[int64]int
}

// New returns an empty Histogram with the given bin width. binSize must
// be positive.
func New(binSize float64) *Histogram {
	return &Histogram{binSize: binSize, bins: make(map[int64]int)}
}

// BinSize returns the histogram's configured bin width.
func (h *Histogram) BinSize() float64 { return h.binSize }

// Add records one sample.
func (h *Histogram) Add(value float64) {
	key := binKey(value, h.binSize)
	h.bins[key]++
}

// Clear resets the histogram to empty.
func (h *Histogram) Clear() {
	h.bins = make(map[int64]int)
}

// Len returns the number of non-empty bins.
func (h *Histogram) Len() int { return len(h.bins) }

// Empty reports whether no samples have been added.
func (h *Histogram) Empty() bool { return len(h.bins) == 0 }

// Buckets returns every non-empty bin, sorted by Low ascending.
func (h *Histogram) Buckets() []Bucket {
	keys := make([]int64, 0, len(h.bins))
	for k := range h.bins {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Bucket, len(keys))
	for i, k := range keys {
		low := float64(k) * h.binSize
		out[i] = Bucket{
			Count:  h.bins[k],
			Low:    low,
			Middle: low + h.binSize/2,
			High:   low + h.binSize,
		}
	}
	return out
}

// Quantile returns an estimate of the p-th quantile (p in [0,1]) of the
// recorded samples, by walking the sorted buckets and linearly
// interpolating within whichever bucket the cumulative count crosses
// the p*total threshold.
func (h *Histogram) Quantile(p float64) float64 {
	buckets := h.Buckets()
	if len(buckets) == 0 {
		return 0
	}
	var total int
	for _, b := range buckets {
		total += b.Count
	}
	if total == 0 {
		return 0
	}
	target := p * float64(total)

	var cumulative float64
	for _, b := range buckets {
		next := cumulative + float64(b.Count)
		if target <= next {
			if b.Count == 0 {
				return b.Middle
			}
			frac := (target - cumulative) / float64(b.Count)
			return b.Low + frac*h.binSize
		}
		cumulative = next
	}
	return buckets[len(buckets)-1].High
}

func binKey(value, binSize float64) int64 {
	return int64(value / binSize)
}
