package timing

import "math/rand"

// noiseFilter approximates a single power-law (1/f^alpha) noise term
// as a first-order recursive (leaky integrator) filter driven by white
// noise, the standard discrete approximation used by libfers'
// ClockModelGenerator. alpha selects the pole location; weight scales
// the output.
type noiseFilter struct {
	pole   float64
	weight float64
	state  float64
	rng    *rand.Rand
}

func newNoiseFilter(alpha, weight float64, rng *rand.Rand) noiseFilter {
	// Map alpha (typically in [-2, 2]) onto a stable pole in (0, 1):
	// alpha>=0 (white) -> pole 1-1/1.01, about 0.0099 (almost no memory);
	// more negative alpha (steeper
	// rolloff, e.g. flicker/random-walk) -> pole closer to 1 (more memory).
	pole := 1 - 1/(1+poleScale(alpha))
	return noiseFilter{pole: pole, weight: weight, rng: rng}
}

func poleScale(alpha float64) float64 {
	if alpha >= 0 {
		return 0.01
	}
	return -alpha
}

func (f *noiseFilter) next() float64 {
	white := f.rng.NormFloat64()
	f.state = f.pole*f.state + (1-f.pole)*white
	return f.weight * f.state
}
