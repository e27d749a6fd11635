// Package path implements time-parameterized position and rotation
// trajectories with static, linear and natural-cubic-spline
// interpolation, mirroring libfers' Path and RotationPath.
package path

import (
	"errors"
	"sort"

	"github.com/fers-sim/fers/internal/geom"
)

// Mode selects how Path/RotationPath interpolate between samples.
type Mode int

const (
	Static Mode = iota
	Linear
	Cubic
)

// ErrNotFinalized is returned by Position/Orientation before Finalize has
// been called.
var ErrNotFinalized = errors.New("path: not finalized")

// TimedCoord is one (time, position) sample.
type TimedCoord struct {
	Time float64
	Pos  geom.V3
}

// Path is a time-ordered set of position samples.
type Path struct {
	mode    Mode
	coords  []TimedCoord
	final   bool
	splineX cubicSpline
	splineY cubicSpline
	splineZ cubicSpline
}

// New returns a Path using the given interpolation mode.
func New(mode Mode) *Path {
	return &Path{mode: mode}
}

// SetMode changes the interpolation mode and un-finalizes the path.
func (p *Path) SetMode(mode Mode) {
	p.mode = mode
	p.final = false
}

// AddCoord inserts a sample in time order (stable for ties) and
// un-finalizes the path.
func (p *Path) AddCoord(c TimedCoord) {
	i := sort.Search(len(p.coords), func(i int) bool { return p.coords[i].Time > c.Time })
	p.coords = append(p.coords, TimedCoord{})
	copy(p.coords[i+1:], p.coords[i:])
	p.coords[i] = c
	p.final = false
}

// Finalize precomputes any interpolation state. It is idempotent and
// a no-op for modes that don't need precomputation.
func (p *Path) Finalize() {
	if p.final {
		return
	}
	if p.mode == Cubic && len(p.coords) > 0 {
		times := make([]float64, len(p.coords))
		xs := make([]float64, len(p.coords))
		ys := make([]float64, len(p.coords))
		zs := make([]float64, len(p.coords))
		for i, c := range p.coords {
			times[i] = c.Time
			xs[i] = c.Pos.X
			ys[i] = c.Pos.Y
			zs[i] = c.Pos.Z
		}
		p.splineX = newCubicSpline(times, xs)
		p.splineY = newCubicSpline(times, ys)
		p.splineZ = newCubicSpline(times, zs)
	}
	p.final = true
}

// Position returns the interpolated position at t. Finalize must have
// been called since the last mutation.
func (p *Path) Position(t float64) (geom.V3, error) {
	if !p.final {
		return geom.V3{}, ErrNotFinalized
	}
	if len(p.coords) == 0 {
		return geom.V3{}, nil
	}
	if len(p.coords) == 1 || p.mode == Static {
		return p.coords[0].Pos, nil
	}
	switch p.mode {
	case Linear:
		return p.interpLinear(t), nil
	case Cubic:
		return geom.V3{
			X: p.splineX.at(t),
			Y: p.splineY.at(t),
			Z: p.splineZ.at(t),
		}, nil
	default:
		return p.coords[0].Pos, nil
	}
}

func (p *Path) interpLinear(t float64) geom.V3 {
	n := len(p.coords)
	if t <= p.coords[0].Time {
		return p.coords[0].Pos
	}
	if t >= p.coords[n-1].Time {
		return p.coords[n-1].Pos
	}
	i := sort.Search(n, func(i int) bool { return p.coords[i].Time >= t })
	lo, hi := p.coords[i-1], p.coords[i]
	if hi.Time == lo.Time {
		return lo.Pos
	}
	frac := (t - lo.Time) / (hi.Time - lo.Time)
	return lo.Pos.Add(hi.Pos.Sub(lo.Pos).Scale(frac))
}
