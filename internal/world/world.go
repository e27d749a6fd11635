// Package world aggregates every object in a scenario: platforms,
// transmitters, receivers, targets and timing prototypes, plus the
// global options (speed of light, sample rate) every other package
// needs. It is the composition root the engine and renderer are built
// from, in the same sense the teacher's pipeline package documents
// itself as one.
package world

import (
	"fmt"
	"sync"

	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/target"
	"github.com/fers-sim/fers/internal/timing"
)

// Options holds the scalar simulation-wide parameters.
type Options struct {
	SpeedOfLight    float64
	SampleRate      float64
	OversampleRatio float64
	StartTime       float64
	EndTime         float64
	RandomSeed      int64
}

// DefaultOptions returns the canonical FERS defaults.
func DefaultOptions() Options {
	return Options{
		SpeedOfLight:    299792458,
		SampleRate:      1e6,
		OversampleRatio: 1,
		RandomSeed:      0,
	}
}

// World is the fully-wired scenario: every node plus shared options.
// Construction (Add*) is not safe for concurrent use; once Finalize
// has been called, read accessors are safe for concurrent use by the
// engine and renderer.
type World struct {
	Options Options

	mu           sync.RWMutex
	platforms    map[string]*platform.Platform
	transmitters map[string]*radarnode.Transmitter
	receivers    map[string]*radarnode.Receiver
	targets      map[string]*TargetEntry
	timingProtos map[string]*timing.Prototype
}

// TargetEntry pairs a target's RCS model with the platform it moves
// on, since target.Target itself only knows how to compute RCS, not
// where it is.
type TargetEntry struct {
	Name     string
	Platform *platform.Platform
	Model    target.Target
}

// New returns an empty World configured with opts.
func New(opts Options) *World {
	return &World{
		Options:      opts,
		platforms:    make(map[string]*platform.Platform),
		transmitters: make(map[string]*radarnode.Transmitter),
		receivers:    make(map[string]*radarnode.Receiver),
		targets:      make(map[string]*TargetEntry),
		timingProtos: make(map[string]*timing.Prototype),
	}
}

// AddPlatform registers p under its name.
func (w *World) AddPlatform(p *platform.Platform) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.platforms[p.Name] = p
}

// AddTransmitter registers tx under its name.
func (w *World) AddTransmitter(tx *radarnode.Transmitter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transmitters[tx.Name] = tx
}

// AddReceiver registers rx under its name.
func (w *World) AddReceiver(rx *radarnode.Receiver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.receivers[rx.Name] = rx
}

// AddTarget registers tgt, moving on p, under the given name.
func (w *World) AddTarget(name string, p *platform.Platform, tgt target.Target) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets[name] = &TargetEntry{Name: name, Platform: p, Model: tgt}
}

// AddTimingPrototype registers proto under its name.
func (w *World) AddTimingPrototype(proto *timing.Prototype) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timingProtos[proto.Name] = proto
}

// Transmitters returns a snapshot slice of all registered transmitters.
func (w *World) Transmitters() []*radarnode.Transmitter {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*radarnode.Transmitter, 0, len(w.transmitters))
	for _, tx := range w.transmitters {
		out = append(out, tx)
	}
	return out
}

// Receivers returns a snapshot slice of all registered receivers.
func (w *World) Receivers() []*radarnode.Receiver {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*radarnode.Receiver, 0, len(w.receivers))
	for _, rx := range w.receivers {
		out = append(out, rx)
	}
	return out
}

// Targets returns a snapshot slice of all registered targets.
func (w *World) Targets() []*TargetEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*TargetEntry, 0, len(w.targets))
	for _, tgt := range w.targets {
		out = append(out, tgt)
	}
	return out
}

// TargetByName returns the named target, or an error if unknown.
func (w *World) TargetByName(name string) (*TargetEntry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	tgt, ok := w.targets[name]
	if !ok {
		return nil, fmt.Errorf("world: no target named %q", name)
	}
	return tgt, nil
}

// TransmitterByName returns the named transmitter, or an error if unknown.
func (w *World) TransmitterByName(name string) (*radarnode.Transmitter, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	tx, ok := w.transmitters[name]
	if !ok {
		return nil, fmt.Errorf("world: no transmitter named %q", name)
	}
	return tx, nil
}

// ReceiverByName returns the named receiver, or an error if unknown.
func (w *World) ReceiverByName(name string) (*radarnode.Receiver, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rx, ok := w.receivers[name]
	if !ok {
		return nil, fmt.Errorf("world: no receiver named %q", name)
	}
	return rx, nil
}

// TimingPrototype returns the named prototype, or an error if unknown.
func (w *World) TimingPrototype(name string) (*timing.Prototype, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	proto, ok := w.timingProtos[name]
	if !ok {
		return nil, fmt.Errorf("world: no timing prototype named %q", name)
	}
	return proto, nil
}

// Platform returns the named platform, or an error if unknown.
func (w *World) Platform(name string) (*platform.Platform, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.platforms[name]
	if !ok {
		return nil, fmt.Errorf("world: no platform named %q", name)
	}
	return p, nil
}

// Finalize finalizes every platform's position/rotation paths. Call
// once after all Add* calls, before starting the engine.
func (w *World) Finalize() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	opsf("finalizing %d platforms", len(w.platforms))
	for _, p := range w.platforms {
		p.Finalize()
	}
}
