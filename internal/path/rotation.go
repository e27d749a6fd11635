package path

import (
	"sort"

	"github.com/fers-sim/fers/internal/geom"
)

// TimedRot is one (time, orientation) sample. Orientation is stored as
// an azimuth/elevation pair in radians.
type TimedRot struct {
	Time      float64
	Azimuth   float64
	Elevation float64
}

// RotationRate describes a constant angular rate starting from a given
// orientation, used by Mode Static when ConstantRate is enabled.
type RotationRate struct {
	StartAzimuth, StartElevation float64
	RateAzimuth, RateElevation   float64
}

// RotationPath is a time-ordered set of orientation samples, or (in
// constant-rate mode) a single start orientation plus angular rates.
type RotationPath struct {
	mode         Mode
	rots         []TimedRot
	final        bool
	constantRate bool
	rate         RotationRate
	splineAz     cubicSpline
	splineEl     cubicSpline
}

// NewRotation returns a RotationPath using the given interpolation mode.
func NewRotation(mode Mode) *RotationPath {
	return &RotationPath{mode: mode}
}

// SetConstantRate switches the path into constant-rotation-rate mode.
// Unlike the sampled modes this finalizes immediately: there is no
// sample set to precompute from.
func (r *RotationPath) SetConstantRate(rate RotationRate) {
	r.constantRate = true
	r.rate = rate
	r.final = true
}

// AddRot inserts a sample in time order and un-finalizes the path.
func (r *RotationPath) AddRot(t TimedRot) {
	i := sort.Search(len(r.rots), func(i int) bool { return r.rots[i].Time >= t.Time })
	r.rots = append(r.rots, TimedRot{})
	copy(r.rots[i+1:], r.rots[i:])
	r.rots[i] = t
	r.final = false
	r.constantRate = false
}

// Finalize precomputes spline state for Cubic mode. Idempotent.
func (r *RotationPath) Finalize() {
	if r.final {
		return
	}
	if r.mode == Cubic && len(r.rots) > 0 {
		times := make([]float64, len(r.rots))
		az := make([]float64, len(r.rots))
		el := make([]float64, len(r.rots))
		for i, t := range r.rots {
			times[i] = t.Time
			az[i] = t.Azimuth
			el[i] = t.Elevation
		}
		r.splineAz = newCubicSpline(times, az)
		r.splineEl = newCubicSpline(times, el)
	}
	r.final = true
}

// Orientation returns the interpolated azimuth/elevation at t.
func (r *RotationPath) Orientation(t float64) (geom.S3, error) {
	if !r.final {
		return geom.S3{}, ErrNotFinalized
	}
	if r.constantRate {
		az := r.rate.StartAzimuth + t*r.rate.RateAzimuth
		el := r.rate.StartElevation + t*r.rate.RateElevation
		return wrapOrientation(az, el), nil
	}
	if len(r.rots) == 0 {
		return geom.S3{}, nil
	}
	if len(r.rots) == 1 || r.mode == Static {
		return wrapOrientation(r.rots[0].Azimuth, r.rots[0].Elevation), nil
	}
	switch r.mode {
	case Linear:
		return r.interpLinear(t), nil
	case Cubic:
		return wrapOrientation(r.splineAz.at(t), r.splineEl.at(t)), nil
	default:
		return wrapOrientation(r.rots[0].Azimuth, r.rots[0].Elevation), nil
	}
}

func (r *RotationPath) interpLinear(t float64) geom.S3 {
	n := len(r.rots)
	if t <= r.rots[0].Time {
		return wrapOrientation(r.rots[0].Azimuth, r.rots[0].Elevation)
	}
	if t >= r.rots[n-1].Time {
		return wrapOrientation(r.rots[n-1].Azimuth, r.rots[n-1].Elevation)
	}
	i := sort.Search(n, func(i int) bool { return r.rots[i].Time >= t })
	lo, hi := r.rots[i-1], r.rots[i]
	if hi.Time == lo.Time {
		return wrapOrientation(lo.Azimuth, lo.Elevation)
	}
	frac := (t - lo.Time) / (hi.Time - lo.Time)
	az := lo.Azimuth + frac*(hi.Azimuth-lo.Azimuth)
	el := lo.Elevation + frac*(hi.Elevation-lo.Elevation)
	return wrapOrientation(az, el)
}

func wrapOrientation(az, el float64) geom.S3 {
	return geom.S3{Length: 1, Azimuth: az, Elevation: el}.Add(geom.S3{})
}
