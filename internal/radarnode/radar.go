// Package radarnode implements the transmitter and receiver radar
// nodes: shared Radar attachment/antenna/timing plumbing, pulsed/CW
// transmission, and windowed/CW reception with PRF quantization.
package radarnode

import (
	"errors"
	"fmt"
	"math"

	"github.com/fers-sim/fers/internal/antenna"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/timing"
)

// ErrAlreadyAttached is returned when a node already has a
// transmitter/receiver pair attached (monostatic linkage is a
// single-use invariant).
var ErrAlreadyAttached = errors.New("radarnode: already attached")

// ErrNoTiming is returned by operations that require a timing source
// before one has been set.
var ErrNoTiming = errors.New("radarnode: timing source not set")

// ErrNoAntenna is returned when an antenna is required but unset.
var ErrNoAntenna = errors.New("radarnode: antenna not set")

// Radar is the state shared by Transmitter and Receiver: a platform,
// an antenna, a timing source, and (for a monostatic pair) a single
// attached counterpart.
type Radar struct {
	Name     string
	Platform *platform.Platform
	antenna  *antenna.Antenna
	timing   *timing.Timing
	attached bool
}

// SetAntenna attaches ant, replacing any previous value.
func (r *Radar) SetAntenna(ant *antenna.Antenna) error {
	if ant == nil {
		return fmt.Errorf("radar %q: %w", r.Name, ErrNoAntenna)
	}
	r.antenna = ant
	return nil
}

// SetTiming attaches a timing source, replacing any previous value.
func (r *Radar) SetTiming(t *timing.Timing) error {
	if t == nil {
		return fmt.Errorf("radar %q: %w", r.Name, ErrNoTiming)
	}
	r.timing = t
	return nil
}

// Timing returns the node's timing source.
func (r *Radar) Timing() (*timing.Timing, error) {
	if r.timing == nil {
		return nil, fmt.Errorf("radar %q: %w", r.Name, ErrNoTiming)
	}
	return r.timing, nil
}

// Antenna returns the node's antenna.
func (r *Radar) Antenna() (*antenna.Antenna, error) {
	if r.antenna == nil {
		return nil, fmt.Errorf("radar %q: %w", r.Name, ErrNoAntenna)
	}
	return r.antenna, nil
}

// Gain delegates to the attached antenna.
func (r *Radar) Gain(azimuth, elevation float64) (float64, error) {
	ant, err := r.Antenna()
	if err != nil {
		return 0, err
	}
	return ant.Gain(azimuth, elevation), nil
}

// NoiseTemperature delegates to the attached antenna.
func (r *Radar) NoiseTemperature() (float64, error) {
	ant, err := r.Antenna()
	if err != nil {
		return 0, err
	}
	return ant.NoiseTemperature, nil
}

// SetAttached marks the node as part of a monostatic pair, returning
// ErrAlreadyAttached if it has already been attached once.
func (r *Radar) SetAttached() error {
	if r.attached {
		return fmt.Errorf("radar %q: %w", r.Name, ErrAlreadyAttached)
	}
	r.attached = true
	return nil
}

// quantizedRate returns the PRF stored after rounding the period down
// to a whole number of samples at the given oversampled rate, matching
// libfers' setPrf/setWindowProperties quantization formula.
func quantizedRate(sampleRate, oversampleRatio, requestedPRF float64) float64 {
	rate := sampleRate * oversampleRatio
	return 1 / (math.Floor(rate/requestedPRF) / rate)
}
