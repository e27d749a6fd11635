// Package interp implements 1-D piecewise-linear lookup tables and the
// per-sample interpolation record the renderer accumulates contributions
// into.
package interp

import "sort"

// Sample is one (x, value) pair in an InterpSet.
type Sample struct {
	X     float64
	Value float64
}

// Set is a sorted table of samples supporting linear interpolation and
// clamped extrapolation at the ends, matching the original InterpSet's
// lookup semantics.
type Set struct {
	samples []Sample
	sorted  bool
}

// Add inserts a sample. Sets are re-sorted lazily on first lookup.
func (s *Set) Add(x, value float64) {
	s.samples = append(s.samples, Sample{X: x, Value: value})
	s.sorted = false
}

func (s *Set) ensureSorted() {
	if s.sorted {
		return
	}
	sort.Slice(s.samples, func(i, j int) bool { return s.samples[i].X < s.samples[j].X })
	s.sorted = true
}

// Len reports the number of samples.
func (s *Set) Len() int { return len(s.samples) }

// Value returns the linearly interpolated value at x. Outside the
// range of stored samples the nearest endpoint's value is returned
// (clamped extrapolation). Value panics if the set is empty.
func (s *Set) Value(x float64) float64 {
	s.ensureSorted()
	n := len(s.samples)
	if n == 0 {
		panic("interp: Value called on empty set")
	}
	if n == 1 || x <= s.samples[0].X {
		return s.samples[0].Value
	}
	if x >= s.samples[n-1].X {
		return s.samples[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return s.samples[i].X >= x })
	lo, hi := s.samples[i-1], s.samples[i]
	if hi.X == lo.X {
		return lo.Value
	}
	frac := (x - lo.X) / (hi.X - lo.X)
	return lo.Value + frac*(hi.Value-lo.Value)
}

// Point is one contribution the renderer accumulates for a response:
// the interpolated amplitude/phase/delay/doppler plus the noise
// temperature in effect at the sample point. This is the six-field
// superset variant (see SPEC_FULL.md section 3).
type Point struct {
	Power            float64
	Time             float64
	Delay            float64
	Doppler          float64
	Phase            float64
	NoiseTemperature float64
}
