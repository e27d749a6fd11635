package path

import (
	"testing"

	"github.com/fers-sim/fers/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionBeforeFinalizeErrors(t *testing.T) {
	p := New(Linear)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{}})
	_, err := p.Position(0)
	require.ErrorIs(t, err, ErrNotFinalized)
}

func TestLinearInterpolation(t *testing.T) {
	p := New(Linear)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{X: 0}})
	p.AddCoord(TimedCoord{Time: 10, Pos: geom.V3{X: 100}})
	p.Finalize()

	pos, err := p.Position(5)
	require.NoError(t, err)
	assert.InDelta(t, 50, pos.X, 1e-9)
}

func TestStaticModeIgnoresTime(t *testing.T) {
	p := New(Static)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{X: 1, Y: 2, Z: 3}})
	p.Finalize()

	pos, err := p.Position(1000)
	require.NoError(t, err)
	assert.Equal(t, geom.V3{X: 1, Y: 2, Z: 3}, pos)
}

func TestCubicSplinePassesThroughKnots(t *testing.T) {
	p := New(Cubic)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{X: 0}})
	p.AddCoord(TimedCoord{Time: 1, Pos: geom.V3{X: 1}})
	p.AddCoord(TimedCoord{Time: 2, Pos: geom.V3{X: 0}})
	p.Finalize()

	for _, tc := range []struct {
		t, want float64
	}{{0, 0}, {1, 1}, {2, 0}} {
		pos, err := p.Position(tc.t)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, pos.X, 1e-9)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	p := New(Linear)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{X: 1}})
	p.Finalize()
	p.Finalize()
	pos, err := p.Position(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos.X)
}

func TestRotationConstantRate(t *testing.T) {
	r := NewRotation(Static)
	r.SetConstantRate(RotationRate{RateAzimuth: 1})
	o, err := r.Orientation(2)
	require.NoError(t, err)
	assert.InDelta(t, 2, o.Azimuth, 1e-9)
}

func TestAddCoordResetsFinalized(t *testing.T) {
	p := New(Linear)
	p.AddCoord(TimedCoord{Time: 0, Pos: geom.V3{}})
	p.Finalize()
	p.AddCoord(TimedCoord{Time: 1, Pos: geom.V3{X: 1}})
	_, err := p.Position(0)
	require.ErrorIs(t, err, ErrNotFinalized)
}
