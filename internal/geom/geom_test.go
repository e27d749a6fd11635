package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV3S3RoundTrip(t *testing.T) {
	cases := []V3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 3, Y: 4, Z: 5},
		{X: -2, Y: -2, Z: 1},
	}
	for _, v := range cases {
		s := V3ToS3(v)
		got := s.ToV3()
		assert.InDelta(t, v.X, got.X, 1e-9)
		assert.InDelta(t, v.Y, got.Y, 1e-9)
		assert.InDelta(t, v.Z, got.Z, 1e-9)
	}
}

func TestS3AzimuthWrap(t *testing.T) {
	a := S3{Length: 1, Azimuth: 3, Elevation: 0}
	b := S3{Length: 1, Azimuth: 2, Elevation: 0}
	sum := a.Add(b)
	require.GreaterOrEqual(t, sum.Azimuth, 0.0)
	require.Less(t, sum.Azimuth, 2*math.Pi)

	diff := a.Sub(b)
	require.Greater(t, diff.Azimuth, -math.Pi)
	require.LessOrEqual(t, diff.Azimuth, math.Pi)
}

func TestZeroVectorToS3(t *testing.T) {
	s := V3ToS3(V3{})
	assert.Equal(t, S3{}, s)
}
