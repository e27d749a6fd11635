package render

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers-sim/fers/internal/interp"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/response"
	"github.com/fers-sim/fers/internal/signal"
	"github.com/fers-sim/fers/internal/timing"
)

type captureSink struct {
	mu      sync.Mutex
	windows []Window
}

func (c *captureSink) WriteWindow(w Window) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.windows = append(c.windows, w)
	return nil
}

func (c *captureSink) snapshot() []Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Window, len(c.windows))
	copy(out, c.windows)
	return out
}

func newTestTiming(t *testing.T, name string) *timing.Timing {
	t.Helper()
	proto := &timing.Prototype{Name: name + "-proto", Frequency: 1e9}
	tm := timing.New(name, 1)
	require.NoError(t, tm.InitializeModel(proto))
	return tm
}

func TestRendererAccumulatesAndFinalizes(t *testing.T) {
	rx := radarnode.NewReceiver("rx1")
	require.NoError(t, rx.SetTiming(newTestTiming(t, "rx1")))
	rx.SetWindowProperties(1e6, 1, 1000, 0, 1e-3)

	sink := &captureSink{}
	r := New(sink, 1e6, 2)
	r.Register(rx, 1)

	windowStart, err := rx.WindowStart(0)
	require.NoError(t, err)

	proto, err := signal.NewPrototype("p", 1e6, []complex128{complex(1, 0), complex(1, 0), complex(1, 0), complex(1, 0)}, 1, 1e9)
	require.NoError(t, err)

	resp := response.Response{
		ID: "a",
		Points: []interp.Point{
			{Power: 1, Time: windowStart, Delay: 0, Phase: 0},
			{Power: 1, Time: windowStart + 2e-6, Delay: 0, Phase: 0},
		},
	}
	r.Submit("rx1", 0, resp, proto)
	r.CloseWindow("rx1", 0)
	r.Shutdown()

	windows := sink.snapshot()
	require.Len(t, windows, 1)
	assert.Equal(t, 0, windows[0].Index)
	assert.Equal(t, windowStart, windows[0].StartTime)
	require.NotEmpty(t, windows[0].Samples)
	assert.NotEqual(t, complex(0, 0), windows[0].Samples[0])
}

func TestRendererFinalizesWindowWithNoSubmissionsMatchesExpectedShape(t *testing.T) {
	rx := radarnode.NewReceiver("rx2")
	sink := &captureSink{}
	r := New(sink, 1e6, 2)
	r.Register(rx, 1)

	r.CloseWindow("rx2", 0)
	r.Shutdown()

	windows := sink.snapshot()
	require.Len(t, windows, 1)

	expected := Window{Receiver: "rx2", Index: 0}
	opts := cmp.Options{cmpopts.IgnoreFields(Window{}, "StartTime"), cmpopts.EquateEmpty()}
	if diff := cmp.Diff(expected, windows[0], opts); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererFinalizesWindowWithNoSubmissions(t *testing.T) {
	rx := radarnode.NewReceiver("rx2")
	sink := &captureSink{}
	r := New(sink, 1e6, 2)
	r.Register(rx, 1)

	r.CloseWindow("rx2", 0)
	r.Shutdown()

	windows := sink.snapshot()
	require.Len(t, windows, 1)
	assert.Equal(t, 0, windows[0].Index)
	assert.Empty(t, windows[0].Samples)
}

func TestRendererIgnoresUnknownReceiver(t *testing.T) {
	r := New(nil, 1e6, 1)
	r.Submit("ghost", 0, response.Response{ID: "a"}, nil)
	// should not panic or block
	time.Sleep(time.Millisecond)
}

func TestAccumulateSumsContributionsAtSameDelay(t *testing.T) {
	pts := []interp.Point{{Power: 1, Time: 0, Delay: 0}, {Power: 1, Time: 1, Delay: 0}}
	items := []radarnode.Contribution{
		{Response: response.Response{ID: "a", Points: pts}},
		{Response: response.Response{ID: "b", Points: pts}},
	}
	buf := accumulate(items, 0, 1, 2)
	require.Len(t, buf, 2)
	assert.InDelta(t, 2.0, real(buf[0]), 1e-9)
}

func TestAccumulateSkipsOutsidePointSpan(t *testing.T) {
	items := []radarnode.Contribution{
		{Response: response.Response{ID: "a", Points: []interp.Point{
			{Power: 1, Time: 10, Delay: 0},
			{Power: 1, Time: 11, Delay: 0},
		}}},
	}
	buf := accumulate(items, 0, 1, 4)
	require.Len(t, buf, 4)
	for _, s := range buf {
		assert.Equal(t, complex(0, 0), s)
	}
}

func TestAccumulateFoldsEnvelopeAtLocalPulseTime(t *testing.T) {
	proto, err := signal.NewPrototype("p", 1, []complex128{complex(1, 0), complex(0, 0)}, 1, 1)
	require.NoError(t, err)

	// delay is large (> pulse duration), matching a reflected arrival
	// far past the prototype's own short local duration.
	items := []radarnode.Contribution{
		{Response: response.Response{Points: []interp.Point{
			{Power: 1, Time: 100, Delay: 100},
			{Power: 1, Time: 101, Delay: 100},
		}}, Proto: proto},
	}
	buf := accumulate(items, 100, 1, 1)
	require.Len(t, buf, 1)
	assert.InDelta(t, 1.0, real(buf[0]), 1e-9)
}

func TestDecimateNoOpBelowFactor2(t *testing.T) {
	samples := []complex128{1, 2, 3}
	assert.Equal(t, samples, Decimate(samples, 1))
}

func TestDecimateShortensOutput(t *testing.T) {
	samples := make([]complex128, 8)
	for i := range samples {
		samples[i] = complex(float64(i), 0)
	}
	out := Decimate(samples, 2)
	assert.Len(t, out, 4)
}
