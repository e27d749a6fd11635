// Package timing implements the clock model a radar node's timing
// source draws phase/frequency offsets and colored phase noise from,
// mirroring libfers' PrototypeTiming/Timing/ClockModelGenerator split.
package timing

import (
	"errors"
	"fmt"
	"math/rand"
)

// AlphaWeight is one power-law noise term: weight * f^alpha.
type AlphaWeight struct {
	Alpha  float64
	Weight float64
}

// Prototype holds the shared clock parameters a scenario's transmitters
// and receivers draw their per-node Timing from: the noise shape, and
// optional one-shot frequency/phase offset distributions.
type Prototype struct {
	Name        string
	Frequency   float64
	Terms       []AlphaWeight
	FreqOffsetStdDev  float64
	PhaseOffsetStdDev float64
	SyncOnPulse       bool
}

// AddAlpha appends a noise term to the prototype.
func (p *Prototype) AddAlpha(alpha, weight float64) {
	p.Terms = append(p.Terms, AlphaWeight{Alpha: alpha, Weight: weight})
}

// ErrNoPrototype is returned by Clone when the Timing was not built
// from a Prototype (initializeModel requires one, matching libfers).
var ErrNoPrototype = errors.New("timing: clone requires a prototype")

// Timing is a single node's live clock: a fixed frequency/phase offset
// drawn once at construction, plus a colored noise generator that
// advances sample-by-sample.
type Timing struct {
	Name      string
	prototype *Prototype
	rng       *rand.Rand

	frequency   float64
	freqOffset  float64
	phaseOffset float64
	syncOnPulse bool
	enabled     bool

	filters []noiseFilter
}

// New constructs an unconfigured Timing with its own RNG stream.
func New(name string, seed int64) *Timing {
	return &Timing{Name: name, rng: rand.New(rand.NewSource(seed))}
}

// InitializeModel configures t from proto: copies the noise terms,
// draws one-shot frequency/phase offsets if the prototype specifies a
// nonzero std-dev, and builds the colored-noise filter bank.
func (t *Timing) InitializeModel(proto *Prototype) error {
	t.prototype = proto
	t.frequency = proto.Frequency
	t.syncOnPulse = proto.SyncOnPulse
	t.enabled = len(proto.Terms) > 0

	if proto.FreqOffsetStdDev > 0 {
		t.freqOffset = t.rng.NormFloat64() * proto.FreqOffsetStdDev
	}
	if proto.PhaseOffsetStdDev > 0 {
		t.phaseOffset = t.rng.NormFloat64() * proto.PhaseOffsetStdDev
	}

	t.filters = make([]noiseFilter, len(proto.Terms))
	for i, term := range proto.Terms {
		t.filters[i] = newNoiseFilter(term.Alpha, term.Weight, t.rng)
	}

	if proto.Frequency == 0 {
		return fmt.Errorf("timing %q: prototype frequency is zero", t.Name)
	}
	return nil
}

// Clone returns a fresh Timing reinitialized from the same prototype.
// Per libfers, this does not deep-copy live RNG/filter state: it
// rebuilds from the prototype with a new RNG stream.
func (t *Timing) Clone(name string, seed int64) (*Timing, error) {
	if t.prototype == nil {
		return nil, ErrNoPrototype
	}
	clone := New(name, seed)
	if err := clone.InitializeModel(t.prototype); err != nil {
		return nil, err
	}
	return clone, nil
}

// NextPhaseNoise advances every noise filter by one sample and returns
// their summed contribution, in radians.
func (t *Timing) NextPhaseNoise() float64 {
	var sum float64
	for i := range t.filters {
		sum += t.filters[i].next()
	}
	return sum
}

// SkipSamples advances every noise filter's internal state by n
// samples without emitting a value, used to keep a cloned receiver's
// noise stream in sync after seeking.
func (t *Timing) SkipSamples(n int) {
	for j := 0; j < n; j++ {
		for i := range t.filters {
			t.filters[i].next()
		}
	}
}

// Frequency returns the node's nominal clock frequency including its
// one-shot offset.
func (t *Timing) Frequency() float64 { return t.frequency + t.freqOffset }

// PhaseOffset returns the node's one-shot phase offset, in radians.
func (t *Timing) PhaseOffset() float64 { return t.phaseOffset }

// SyncOnPulse reports whether this node resets its clock at each pulse.
func (t *Timing) SyncOnPulse() bool { return t.syncOnPulse }

// Enabled reports whether the clock model has any noise terms active.
func (t *Timing) Enabled() bool { return t.enabled }
