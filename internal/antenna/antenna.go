// Package antenna implements the gain pattern variants a radar node's
// antenna can use: isotropic, sinc, gaussian, squared-sinc and
// file-tabulated (reduced table and dense measured pattern).
package antenna

import (
	"fmt"
	"math"

	"github.com/fers-sim/fers/internal/interp"
)

// Pattern computes antenna gain (linear, not dB) for an angle pair
// relative to boresight.
type Pattern interface {
	Gain(azimuth, elevation float64) float64
}

// Antenna pairs a gain Pattern with a noise temperature and an
// efficiency loss factor applied uniformly to every lookup.
type Antenna struct {
	Name             string
	Pattern          Pattern
	NoiseTemperature float64
	Efficiency       float64 // 0..1, applied as a multiplier on Gain
}

// Gain returns the antenna's effective gain at the given angle,
// including the efficiency factor.
func (a *Antenna) Gain(azimuth, elevation float64) float64 {
	eff := a.Efficiency
	if eff == 0 {
		eff = 1
	}
	return eff * a.Pattern.Gain(azimuth, elevation)
}

// Isotropic radiates/receives uniformly in all directions.
type Isotropic struct{}

func (Isotropic) Gain(azimuth, elevation float64) float64 { return 1.0 }

// Sinc models a dish antenna's main lobe with a sinc(x) pattern of the
// combined off-boresight angle hypot(azimuth, elevation).
type Sinc struct {
	Alpha, Beta float64
	Gamma       float64
}

func (s Sinc) Gain(azimuth, elevation float64) float64 {
	theta := math.Hypot(azimuth, elevation)
	if theta == 0 {
		return s.Alpha
	}
	x := s.Beta * theta
	sincVal := math.Sin(x) / x
	return s.Alpha * math.Pow(math.Abs(sincVal), s.Gamma)
}

// SquaredSinc is Sinc with the sinc term squared before the gamma
// exponent, matching the alternate antenna_pattern variant.
type SquaredSinc struct {
	Alpha, Beta float64
	Gamma       float64
}

func (s SquaredSinc) Gain(azimuth, elevation float64) float64 {
	theta := math.Hypot(azimuth, elevation)
	if theta == 0 {
		return s.Alpha
	}
	x := s.Beta * theta
	sincVal := math.Sin(x) / x
	return s.Alpha * math.Pow(sincVal*sincVal, s.Gamma)
}

// Gaussian models a gain pattern that falls off as a 2-D gaussian in
// azimuth/elevation, with independent beamwidths.
type Gaussian struct {
	Alpha       float64
	AzBeamwidth float64
	ElBeamwidth float64
}

func (g Gaussian) Gain(azimuth, elevation float64) float64 {
	az := azimuth / g.AzBeamwidth
	el := elevation / g.ElBeamwidth
	return g.Alpha * math.Exp(-(az*az+el*el)/2)
}

// FileTable is a reduced azimuth x elevation gain table loaded from a
// scenario file, each axis independently interpolated and combined
// multiplicatively (matches libfers' reduced-table antenna variant).
type FileTable struct {
	Azimuth   interp.Set
	Elevation interp.Set
}

func (f *FileTable) Gain(azimuth, elevation float64) float64 {
	if f.Azimuth.Len() == 0 || f.Elevation.Len() == 0 {
		return 0
	}
	return f.Azimuth.Value(azimuth) * f.Elevation.Value(elevation)
}

// FilePattern is a dense measured (azimuth, elevation) -> gain table,
// matching libfers' denser file-backed antenna pattern variant. Unlike
// FileTable it is not separable: each (az, el) pair is looked up
// directly on a rectangular grid and returns the gain of the nearest
// grid point (clamped to the grid edges); values between grid points
// are not interpolated.
type FilePattern struct {
	azimuths   []float64 // sorted, unique
	elevations []float64 // sorted, unique
	gain       [][]float64
}

// NewFilePattern builds a FilePattern from a rectangular grid of
// samples. azimuths and elevations must be sorted ascending; gain is
// indexed gain[azIdx][elIdx].
func NewFilePattern(azimuths, elevations []float64, gain [][]float64) (*FilePattern, error) {
	if len(azimuths) == 0 || len(elevations) == 0 {
		return nil, fmt.Errorf("antenna: file pattern requires a non-empty grid")
	}
	if len(gain) != len(azimuths) {
		return nil, fmt.Errorf("antenna: gain grid row count %d does not match azimuth count %d", len(gain), len(azimuths))
	}
	for i, row := range gain {
		if len(row) != len(elevations) {
			return nil, fmt.Errorf("antenna: gain grid row %d has %d columns, want %d", i, len(row), len(elevations))
		}
	}
	return &FilePattern{azimuths: azimuths, elevations: elevations, gain: gain}, nil
}

func (f *FilePattern) Gain(azimuth, elevation float64) float64 {
	ai := clampIndex(f.azimuths, azimuth)
	ei := clampIndex(f.elevations, elevation)
	return f.gain[ai][ei]
}

func clampIndex(xs []float64, v float64) int {
	if v <= xs[0] {
		return 0
	}
	if v >= xs[len(xs)-1] {
		return len(xs) - 1
	}
	lo, hi := 0, len(xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] > v {
			hi = mid
		} else {
			lo = mid
		}
	}
	if v-xs[lo] < xs[hi]-v {
		return lo
	}
	return hi
}

// besselJ1Sinc is a J1-Bessel-based sinc variant used by some dish
// antenna models (airy-disk-like pattern). math.J1 is the direct
// stdlib equivalent of libm's j1, no wrapper needed.
func besselJ1Sinc(x float64) float64 {
	if x == 0 {
		return 0.5
	}
	return math.J1(x) / x
}

// Airy is a circular-aperture dish pattern using the Bessel-J1-based
// airy disk approximation.
type Airy struct {
	Alpha, Beta float64
}

func (a Airy) Gain(azimuth, elevation float64) float64 {
	theta := math.Hypot(azimuth, elevation)
	v := besselJ1Sinc(a.Beta * theta)
	return a.Alpha * v * v * 4
}
