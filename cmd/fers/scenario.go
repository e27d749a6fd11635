package main

import (
	"github.com/fers-sim/fers/internal/antenna"
	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/path"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/signal"
	"github.com/fers-sim/fers/internal/target"
	"github.com/fers-sim/fers/internal/timing"
	"github.com/fers-sim/fers/internal/world"
)

// buildDemoScenario wires a minimal bistatic scene directly against
// the World API: a stationary transmitter and receiver and one target
// flying a straight-line crossing path. Scenario authoring from a
// file format stays out of scope (see internal/config's package doc),
// so this stands in for it: cmd/fers has no scenario flag and always
// runs this scene.
func buildDemoScenario(w *world.World) error {
	txPlatform := platform.New("tx-site", path.Static, path.Static)
	txPlatform.Position().AddCoord(path.TimedCoord{Time: 0, Pos: geom.V3{}})
	txPlatform.Finalize()

	rxPlatform := platform.New("rx-site", path.Static, path.Static)
	rxPlatform.Position().AddCoord(path.TimedCoord{Time: 0, Pos: geom.V3{X: 1000}})
	rxPlatform.Finalize()

	targetPlatform := platform.New("crossing-target", path.Linear, path.Static)
	targetPlatform.Position().AddCoord(path.TimedCoord{Time: 0, Pos: geom.V3{X: 20000, Y: -5000, Z: 1000}})
	targetPlatform.Position().AddCoord(path.TimedCoord{Time: 10, Pos: geom.V3{X: 20000, Y: 5000, Z: 1000}})
	targetPlatform.Finalize()

	clock := &timing.Prototype{Name: "master-clock", Frequency: 1}
	w.AddTimingPrototype(clock)

	txTiming := timing.New("tx-timing", w.Options.RandomSeed)
	if err := txTiming.InitializeModel(clock); err != nil {
		return err
	}
	rxTiming := timing.New("rx-timing", w.Options.RandomSeed+1)
	if err := rxTiming.InitializeModel(clock); err != nil {
		return err
	}

	pulseSamples := make([]complex128, 64)
	for i := range pulseSamples {
		pulseSamples[i] = complex(1, 0)
	}
	pulse, err := signal.NewPrototype("demo-pulse", w.Options.SampleRate, pulseSamples, 1000, 1e9)
	if err != nil {
		return err
	}

	tx := &radarnode.Transmitter{}
	tx.Name = "tx0"
	tx.Platform = txPlatform
	if err := tx.SetAntenna(&antenna.Antenna{Pattern: antenna.Isotropic{}}); err != nil {
		return err
	}
	if err := tx.SetTiming(txTiming); err != nil {
		return err
	}
	if err := tx.SetPulse(pulse); err != nil {
		return err
	}
	tx.SetPRF(w.Options.SampleRate, w.Options.OversampleRatio, 1000)
	w.AddTransmitter(tx)

	rx := radarnode.NewReceiver("rx0")
	rx.Platform = rxPlatform
	if err := rx.SetAntenna(&antenna.Antenna{Pattern: antenna.Isotropic{}}); err != nil {
		return err
	}
	if err := rx.SetTiming(rxTiming); err != nil {
		return err
	}
	if err := rx.SetNoiseTemperature(290); err != nil {
		return err
	}
	rx.SetWindowProperties(w.Options.SampleRate, w.Options.OversampleRatio, 1000, 0, 1.0/1000)
	w.AddReceiver(rx)

	w.AddPlatform(txPlatform)
	w.AddPlatform(rxPlatform)
	w.AddPlatform(targetPlatform)
	w.AddTarget("crossing-target", targetPlatform, &target.Iso{Name: "crossing-target", RCS0: 10})

	return nil
}
