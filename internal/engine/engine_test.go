package engine

import (
	"context"
	"testing"

	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	order []string
}

func (r *recordingDispatcher) HandlePulseFire(tx *radarnode.Transmitter, pulseIndex int, t float64) {
	r.order = append(r.order, "pulse")
}
func (r *recordingDispatcher) HandleCwOn(tx *radarnode.Transmitter, t float64) {
	r.order = append(r.order, "cwon")
}
func (r *recordingDispatcher) HandleCwOff(tx *radarnode.Transmitter, t float64) {
	r.order = append(r.order, "cwoff")
}
func (r *recordingDispatcher) HandleReceiverWindowOpen(rx *radarnode.Receiver, window int, t float64) {
	r.order = append(r.order, "winopen")
}
func (r *recordingDispatcher) HandleReceiverWindowClose(rx *radarnode.Receiver, window int, t float64) {
	r.order = append(r.order, "winclose")
}

func TestEventsProcessedInTimeOrder(t *testing.T) {
	w := world.New(world.DefaultOptions())
	e := New(w)
	e.Schedule(Event{Time: 3, Kind: PulseFire})
	e.Schedule(Event{Time: 1, Kind: CwOn})
	e.Schedule(Event{Time: 2, Kind: CwOff})

	d := &recordingDispatcher{}
	require.NoError(t, e.Run(context.Background(), d))
	assert.Equal(t, []string{"cwon", "cwoff", "pulse"}, d.order)
}

func TestTiesBreakByInsertionOrder(t *testing.T) {
	w := world.New(world.DefaultOptions())
	e := New(w)
	e.Schedule(Event{Time: 1, Kind: PulseFire})
	e.Schedule(Event{Time: 1, Kind: CwOn})

	d := &recordingDispatcher{}
	require.NoError(t, e.Run(context.Background(), d))
	assert.Equal(t, []string{"pulse", "cwon"}, d.order)
}

func TestCwOnOffTracksActiveSet(t *testing.T) {
	w := world.New(world.DefaultOptions())
	tx := &radarnode.Transmitter{Mode: radarnode.CW}
	tx.Name = "tx1"
	w.AddTransmitter(tx)

	e := New(w)
	require.NoError(t, e.ScheduleTransmitter(tx, 0, 10))

	d := &recordingDispatcher{}
	require.NoError(t, e.Run(context.Background(), d))
	assert.Empty(t, e.State().ActiveCW)
	assert.Equal(t, []string{"cwon", "cwoff"}, d.order)
}
