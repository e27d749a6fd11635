package monitor

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/world"
)

func TestStatsAddWindowUpdatesSnapshotAndHistory(t *testing.T) {
	s := NewStats()
	s.AddWindow(render.Window{Receiver: "rx0", Index: 0, StartTime: 0, Samples: []complex128{complex(3, 4)}})
	s.AddWindow(render.Window{Receiver: "rx0", Index: 1, StartTime: 1, Samples: []complex128{complex(0, 1)}})

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.WindowsRendered)
	assert.EqualValues(t, 2, snap.SamplesRendered)
	assert.Equal(t, "rx0", snap.LastReceiver)
	assert.Equal(t, 1, snap.LastWindow)
	assert.InDelta(t, 1.0, snap.LastPeakMag, 1e-9)

	history := s.History("rx0")
	require.Len(t, history, 2)
	assert.InDelta(t, 5.0, history[0].Peak, 1e-9)
	assert.InDelta(t, 1.0, history[1].Peak, 1e-9)
}

func TestStatsSinkForwardsToNext(t *testing.T) {
	s := NewStats()
	var captured []render.Window
	next := sinkFunc(func(w render.Window) error {
		captured = append(captured, w)
		return nil
	})

	sink := NewStatsSink(s, next)
	require.NoError(t, sink.WriteWindow(render.Window{Receiver: "rx0", Index: 0}))

	assert.Len(t, captured, 1)
	assert.EqualValues(t, 1, s.Snapshot().WindowsRendered)
}

type sinkFunc func(render.Window) error

func (f sinkFunc) WriteWindow(w render.Window) error { return f(w) }

func TestHandleStatusReturnsCounters(t *testing.T) {
	stats := NewStats()
	stats.AddWindow(render.Window{Receiver: "rx0", Index: 0, Samples: []complex128{complex(1, 0)}})

	w := world.New(world.DefaultOptions())
	ws := NewWebServer(WebServerConfig{Stats: stats, World: w, RunID: 7})

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	ws.handleStatus(rec, req)

	require.Equal(t, 200, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body["run_id"])
	assert.EqualValues(t, 1, body["windows_rendered"])
}

func TestHandleWindowsChartRequiresReceiver(t *testing.T) {
	ws := NewWebServer(WebServerConfig{Stats: NewStats()})
	req := httptest.NewRequest("GET", "/debug/windows", nil)
	rec := httptest.NewRecorder()
	ws.handleWindowsChart(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestHandleWindowsChartRendersKnownReceiver(t *testing.T) {
	stats := NewStats()
	stats.AddWindow(render.Window{Receiver: "rx0", Index: 0, Samples: []complex128{complex(3, 4)}})

	ws := NewWebServer(WebServerConfig{Stats: stats})
	req := httptest.NewRequest("GET", "/debug/windows?receiver=rx0", nil)
	rec := httptest.NewRecorder()
	ws.handleWindowsChart(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")
}
