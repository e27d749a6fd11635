package target

import (
	"testing"

	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/path"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsoTargetConstantRCS(t *testing.T) {
	it := &Iso{Name: "iso", RCS0: 5}
	rcs, err := it.RCS(geom.S3{}, geom.S3{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rcs)
}

func TestIsoTargetWithStatModel(t *testing.T) {
	it := &Iso{Name: "iso", RCS0: 2, Model: Constant{}}
	rcs, err := it.RCS(geom.S3{}, geom.S3{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rcs)
}

func TestFileTargetMissingPatternIsFatal(t *testing.T) {
	p := platform.New("tgt", path.Static, path.Static)
	p.Rotation().AddRot(path.TimedRot{Time: 0})
	p.Finalize()

	ft := &File{Name: "ft", Platform: p}
	_, err := ft.RCS(geom.S3{Length: 1}, geom.S3{Length: 1}, 0)
	require.ErrorIs(t, err, ErrRCSUnavailable)
}

func TestFileTargetLookup(t *testing.T) {
	p := platform.New("tgt", path.Static, path.Static)
	p.Rotation().AddRot(path.TimedRot{Time: 0})
	p.Finalize()

	ft := &File{Name: "ft", Platform: p}
	ft.Azimuth.Add(0, 1.0)
	ft.Elevation.Add(0, 2.0)

	rcs, err := ft.RCS(geom.S3{Length: 1}, geom.S3{Length: 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rcs)
}

func TestSwerlingModelsProduceNonNegativeSamples(t *testing.T) {
	s1 := NewSwerlingI1II(NewSource(1))
	s2 := NewSwerlingIIIIV(NewSource(2))
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, s1.Sample(), 0.0)
		assert.GreaterOrEqual(t, s2.Sample(), 0.0)
	}
}
