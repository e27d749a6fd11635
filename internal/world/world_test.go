package world

import (
	"testing"

	"github.com/fers-sim/fers/internal/path"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldRegistersAndFinalizes(t *testing.T) {
	w := New(DefaultOptions())
	p := platform.New("p1", path.Static, path.Static)
	w.AddPlatform(p)
	w.AddTransmitter(&radarnode.Transmitter{Radar: radarnode.Radar{Name: "tx1"}})
	w.AddReceiver(radarnode.NewReceiver("rx1"))

	w.Finalize()

	got, err := w.Platform("p1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	assert.Len(t, w.Transmitters(), 1)
	assert.Len(t, w.Receivers(), 1)
}

func TestWorldUnknownPlatformErrors(t *testing.T) {
	w := New(DefaultOptions())
	_, err := w.Platform("nope")
	require.Error(t, err)
}

func TestDefaultOptionsMatchSpecConstants(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 299792458.0, opts.SpeedOfLight)
}
