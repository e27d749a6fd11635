// Package target implements radar cross-section models: a constant or
// statistically-fluctuating isotropic target, and a bistatic
// file-backed target whose RCS depends on the incidence/reflection
// angle bisector.
package target

import (
	"errors"
	"fmt"

	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/interp"
	"github.com/fers-sim/fers/internal/platform"
)

// ErrRCSUnavailable is returned when a File target has no azimuth or
// elevation samples to look up. Angles outside a non-empty table are
// clamped to its endpoints and do not produce this error.
var ErrRCSUnavailable = errors.New("target: rcs unavailable for this angle")

// StatModel draws a random RCS fluctuation multiplier.
type StatModel interface {
	Sample() float64
}

// Target computes radar cross section (square meters) given the
// incident and outgoing ray directions (world frame, from the target)
// and the simulation time.
type Target interface {
	RCS(in, out geom.S3, t float64) (float64, error)
}

// Iso is a target whose baseline RCS does not depend on angle,
// optionally fluctuated by a statistical model.
type Iso struct {
	Name  string
	RCS0  float64
	Model StatModel
}

func (it *Iso) RCS(in, out geom.S3, t float64) (float64, error) {
	if it.Model != nil {
		return it.RCS0 * it.Model.Sample(), nil
	}
	return it.RCS0, nil
}

// File is a bistatic target whose RCS is looked up from a measured
// pattern indexed by the angle bisector of the incident and outgoing
// rays, transformed into the target platform's body frame.
type File struct {
	Name      string
	Platform  *platform.Platform
	Azimuth   interp.Set
	Elevation interp.Set
	Model     StatModel
}

// RCS computes the bisector of in and out in the world frame, rotates
// it into the target's body frame using the platform's orientation at
// t, and looks up azimuth/elevation RCS independently (halved, per
// libfers' bisector-angle convention) before combining multiplicatively.
func (ft *File) RCS(in, out geom.S3, t float64) (float64, error) {
	bisector := in.Add(out)
	rot, err := ft.Platform.GetRotation(t)
	if err != nil {
		return 0, fmt.Errorf("target %q: %w", ft.Name, err)
	}
	local := bisector.Sub(rot)

	if ft.Azimuth.Len() == 0 || ft.Elevation.Len() == 0 {
		return 0, fmt.Errorf("target %q: %w", ft.Name, ErrRCSUnavailable)
	}

	azGain := ft.Azimuth.Value(local.Azimuth / 2)
	elGain := ft.Elevation.Value(local.Elevation / 2)
	rcs := azGain * elGain
	if ft.Model != nil {
		rcs *= ft.Model.Sample()
	}
	return rcs, nil
}
