package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fers.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRunsMigrations(t *testing.T) {
	s := openTestStore(t)
	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('runs', 'windows')`,
	).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestInsertRunAndWriteWindow(t *testing.T) {
	s := openTestStore(t)

	opts := world.DefaultOptions()
	opts.EndTime = 1.0
	runID, err := s.InsertRun(42, opts)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	sink := s.NewRunSink(runID)
	require.NoError(t, sink.WriteWindow(render.Window{
		Receiver:  "rx0",
		Index:     3,
		StartTime: 0.5,
		Samples:   []complex128{complex(3, 4), complex(0, 0)},
	}))

	var receiver string
	var windowIndex, sampleCount int
	var peak float64
	require.NoError(t, s.db.QueryRow(
		`SELECT receiver, window_index, sample_count, peak_magnitude FROM windows WHERE run_id = ?`, runID,
	).Scan(&receiver, &windowIndex, &sampleCount, &peak))

	assert.Equal(t, "rx0", receiver)
	assert.Equal(t, 3, windowIndex)
	assert.Equal(t, 2, sampleCount)
	assert.InDelta(t, 5.0, peak, 1e-9)
}
