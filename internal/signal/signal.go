// Package signal implements the transmitted pulse prototype: a complex
// baseband waveform sampled at a fixed rate, with a phase/amplitude
// lookup used by the renderer to reconstruct each response.
package signal

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Prototype is a complex baseband pulse, sampled uniformly at Rate
// samples/second starting at local time 0.
type Prototype struct {
	Name     string
	Rate    float64
	Samples []complex128
	Power   float64 // peak transmit power, watts
	Carrier float64 // carrier frequency, Hz
}

// NewPrototype returns a Prototype and verifies its parameters.
func NewPrototype(name string, rate float64, samples []complex128, power, carrier float64) (*Prototype, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("signal %q: sample rate must be positive, got %v", name, rate)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("signal %q: must have at least one sample", name)
	}
	return &Prototype{Name: name, Rate: rate, Samples: samples, Power: power, Carrier: carrier}, nil
}

// Duration returns the pulse length in seconds.
func (p *Prototype) Duration() float64 {
	return float64(len(p.Samples)) / p.Rate
}

// At returns the prototype's complex sample at local time t (linear
// interpolation between grid points, zero outside [0, Duration())).
func (p *Prototype) At(t float64) complex128 {
	if t < 0 {
		return 0
	}
	idx := t * p.Rate
	i := int(math.Floor(idx))
	if i < 0 || i >= len(p.Samples) {
		return 0
	}
	if i == len(p.Samples)-1 {
		return p.Samples[i]
	}
	frac := idx - float64(i)
	a, b := p.Samples[i], p.Samples[i+1]
	return a + complex(frac, 0)*(b-a)
}

// Render returns the amplitude (magnitude of At(t), unscaled) and phase
// of the prototype at local time t, i.e. what a receiver sees before
// range-dependent loss and gain are applied.
func (p *Prototype) Render(t float64) (amplitude, phase float64) {
	v := p.At(t)
	return cmplx.Abs(v), cmplx.Phase(v)
}
