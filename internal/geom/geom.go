// Package geom implements the cartesian and spherical vector types that
// every other FERS package builds positions, velocities and rotations
// out of.
package geom

import "math"

// V3 is a cartesian vector (meters, or meters/second for velocities).
type V3 struct {
	X, Y, Z float64
}

// Add returns v+w.
func (v V3) Add(w V3) V3 {
	return V3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v V3) Sub(w V3) V3 {
	return V3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v V3) Scale(s float64) V3 {
	return V3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v V3) Dot(w V3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Length returns the Euclidean norm of v.
func (v V3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// S3 is a spherical vector: a length plus an azimuth (angle from +X
// axis in the XY plane, radians) and elevation (angle above the XY
// plane, radians).
type S3 struct {
	Length    float64
	Azimuth   float64
	Elevation float64
}

// ToV3 converts s to cartesian form.
func (s S3) ToV3() V3 {
	cosEl := math.Cos(s.Elevation)
	return V3{
		X: s.Length * math.Cos(s.Azimuth) * cosEl,
		Y: s.Length * math.Sin(s.Azimuth) * cosEl,
		Z: s.Length * math.Sin(s.Elevation),
	}
}

// V3ToS3 converts v to spherical form.
func V3ToS3(v V3) S3 {
	length := v.Length()
	if length == 0 {
		return S3{}
	}
	return S3{
		Length:    length,
		Azimuth:   math.Atan2(v.Y, v.X),
		Elevation: math.Asin(v.Z / length),
	}
}

// Add returns s+t with azimuth wrapped into [0, 2pi).
//
// Elevation is reduced modulo pi without a full wrap; the original C++
// implementation has the same limitation (see geometry_ops.cpp), so
// this is carried over rather than silently "fixed".
func (s S3) Add(t S3) S3 {
	az := math.Mod(s.Azimuth+t.Azimuth, 2*math.Pi)
	if az < 0 {
		az += 2 * math.Pi
	}
	return S3{
		Length:    s.Length + t.Length,
		Azimuth:   az,
		Elevation: math.Mod(s.Elevation+t.Elevation, math.Pi),
	}
}

// Sub returns s-t with azimuth wrapped into (-pi, pi].
func (s S3) Sub(t S3) S3 {
	az := s.Azimuth - t.Azimuth
	// TODO: has to be a better way to do this.
	for az > math.Pi {
		az -= 2 * math.Pi
	}
	for az <= -math.Pi {
		az += 2 * math.Pi
	}
	return S3{
		Length:    s.Length - t.Length,
		Azimuth:   az,
		Elevation: math.Mod(s.Elevation-t.Elevation, math.Pi),
	}
}
