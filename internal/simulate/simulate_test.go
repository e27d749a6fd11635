package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers-sim/fers/internal/antenna"
	"github.com/fers-sim/fers/internal/engine"
	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/interp"
	"github.com/fers-sim/fers/internal/path"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/response"
	"github.com/fers-sim/fers/internal/signal"
	"github.com/fers-sim/fers/internal/target"
	"github.com/fers-sim/fers/internal/timing"
	"github.com/fers-sim/fers/internal/world"
)

type captureSink struct {
	windows []render.Window
}

func (s *captureSink) WriteWindow(w render.Window) error {
	s.windows = append(s.windows, w)
	return nil
}

func staticPlatform(t *testing.T, name string, pos geom.V3) *platform.Platform {
	t.Helper()
	p := platform.New(name, path.Static, path.Static)
	p.Position().AddCoord(path.TimedCoord{Time: 0, Pos: pos})
	p.Finalize()
	return p
}

func newTiming(t *testing.T, name string, freq float64) *timing.Timing {
	t.Helper()
	proto := &timing.Prototype{Name: name + "-proto", Frequency: freq}
	tm := timing.New(name, 1)
	require.NoError(t, tm.InitializeModel(proto))
	return tm
}

func TestCoordinatorEndToEnd(t *testing.T) {
	w := world.New(world.DefaultOptions())

	txPlatform := staticPlatform(t, "tx-platform", geom.V3{X: 0, Y: 0, Z: 0})
	rxPlatform := staticPlatform(t, "rx-platform", geom.V3{X: 0, Y: 0, Z: 0})
	targetPlatform := staticPlatform(t, "target-platform", geom.V3{X: 10000, Y: 0, Z: 0})
	w.AddPlatform(txPlatform)
	w.AddPlatform(rxPlatform)
	w.AddPlatform(targetPlatform)

	ant := &antenna.Antenna{Name: "boresight", Pattern: antenna.Isotropic{}}

	tx := &radarnode.Transmitter{Radar: radarnode.Radar{Name: "tx0", Platform: txPlatform}}
	require.NoError(t, tx.SetAntenna(ant))
	require.NoError(t, tx.SetTiming(newTiming(t, "tx0", 1e9)))
	samples := []complex128{complex(1, 0), complex(1, 0), complex(0, 0)}
	proto, err := signal.NewPrototype("pulse0", 1e6, samples, 1000, 1e9)
	require.NoError(t, err)
	require.NoError(t, tx.SetPulse(proto))
	tx.SetPRF(1e6, 1, 1000)

	rx := radarnode.NewReceiver("rx0")
	rx.Platform = rxPlatform
	require.NoError(t, rx.SetAntenna(ant))
	require.NoError(t, rx.SetTiming(newTiming(t, "rx0", 1e9)))
	rx.SetWindowProperties(1e6, 1, 1000, 0, 1e-3)

	w.AddTransmitter(tx)
	w.AddReceiver(rx)
	w.AddTarget("target0", targetPlatform, &target.Iso{Name: "target0", RCS0: 10})

	w.Finalize()

	sink := &captureSink{}
	renderer := render.New(sink, 1e6, 2)
	renderer.Register(rx, 7)

	coord := New(w, renderer)
	e := engine.New(w)
	require.NoError(t, e.ScheduleTransmitter(tx, 0, 1.0/1000))
	require.NoError(t, e.ScheduleReceiver(rx, 0, 1.0/1000))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Run(ctx, coord))

	renderer.Shutdown()

	require.NotEmpty(t, sink.windows)
	assert.Equal(t, "rx0", sink.windows[0].Receiver)
}

func TestWindowForTimeRejectsOutsideSchedule(t *testing.T) {
	rx := radarnode.NewReceiver("rx0")
	require.NoError(t, rx.SetAntenna(&antenna.Antenna{Pattern: antenna.Isotropic{}}))
	require.NoError(t, rx.SetTiming(newTiming(t, "rx0", 1e9)))
	rx.SetWindowProperties(1e6, 1, 1000, 0, 1e-3)

	_, ok := windowForTime(rx, -1)
	assert.False(t, ok)
}

func TestRadarEquationScalesWithRCS(t *testing.T) {
	small := radarEquation(1000, 1, 1, 0.03, 1, 10000, 10000)
	large := radarEquation(1000, 1, 1, 0.03, 100, 10000, 10000)
	assert.Greater(t, large, small)
}

func TestResponseKindConstantsRoundTrip(t *testing.T) {
	assert.NotEqual(t, response.Pulse, response.CWSegment)
	assert.NotEqual(t, response.Pulse, response.Direct)
}

func buildBistaticWorld(t *testing.T) (*world.World, *radarnode.Transmitter, *radarnode.Receiver) {
	t.Helper()
	w := world.New(world.DefaultOptions())

	txPlatform := staticPlatform(t, "tx-platform", geom.V3{X: 0, Y: 0, Z: 0})
	rxPlatform := staticPlatform(t, "rx-platform", geom.V3{X: 0, Y: 0, Z: 0})
	targetPlatform := staticPlatform(t, "target-platform", geom.V3{X: 10000, Y: 0, Z: 0})
	w.AddPlatform(txPlatform)
	w.AddPlatform(rxPlatform)
	w.AddPlatform(targetPlatform)

	ant := &antenna.Antenna{Name: "boresight", Pattern: antenna.Isotropic{}}

	tx := &radarnode.Transmitter{Radar: radarnode.Radar{Name: "tx0", Platform: txPlatform}}
	require.NoError(t, tx.SetAntenna(ant))
	require.NoError(t, tx.SetTiming(newTiming(t, "tx0", 1e9)))
	samples := []complex128{complex(1, 0), complex(1, 0), complex(0, 0)}
	proto, err := signal.NewPrototype("pulse0", 1e6, samples, 1000, 1e9)
	require.NoError(t, err)
	require.NoError(t, tx.SetPulse(proto))
	tx.SetPRF(1e6, 1, 1000)

	rx := radarnode.NewReceiver("rx0")
	rx.Platform = rxPlatform
	require.NoError(t, rx.SetAntenna(ant))
	require.NoError(t, rx.SetTiming(newTiming(t, "rx0", 1e9)))
	rx.SetWindowProperties(1e6, 1, 1000, 0, 1e-3)

	w.AddTransmitter(tx)
	w.AddReceiver(rx)
	w.AddTarget("target0", targetPlatform, &target.Iso{Name: "target0", RCS0: 10})
	w.Finalize()

	return w, tx, rx
}

func TestPulseFireProducesMultiPointResponse(t *testing.T) {
	w, tx, rx := buildBistaticWorld(t)
	sink := &captureSink{}
	renderer := render.New(sink, 1e6, 1)
	renderer.Register(rx, 1)

	coord := New(w, renderer)
	coord.HandlePulseFire(tx, 0, 0)
	renderer.CloseWindow(rx.Name, 0)
	renderer.Shutdown()

	require.NotEmpty(t, sink.windows)
	assert.NotEmpty(t, sink.windows[0].Samples)
}

func TestComputeContributionSamplesAcrossPulseWidth(t *testing.T) {
	w, tx, rx := buildBistaticWorld(t)
	coord := New(w, render.New(nil, 1e6, 1))
	tgt := w.Targets()[0]

	var pts []interp.Point
	duration := tx.Pulse.Duration()
	for i := 0; i < pulseSamplePoints; i++ {
		frac := float64(i) / float64(pulseSamplePoints-1)
		p, ok := coord.computeContribution(tx, rx, tgt, frac*duration)
		if ok {
			pts = append(pts, p)
		}
	}
	assert.GreaterOrEqual(t, len(pts), pulseSamplePoints-1)
}

func TestCwIntervalFillsCWBufferAndSuppressesAttachedDirectPath(t *testing.T) {
	w, tx, rx := buildBistaticWorld(t)
	tx.Mode = radarnode.CW
	require.NoError(t, tx.AttachReceiver(rx))

	sink := &captureSink{}
	renderer := render.New(sink, 1e6, 1)
	renderer.Register(rx, 1)

	coord := New(w, renderer)
	coord.HandleCwOn(tx, 0)
	coord.HandleCwOff(tx, 1e-5)
	renderer.Shutdown()

	assert.NotEmpty(t, rx.CWSamples())
	assert.Empty(t, rx.InterferenceLog())
}
