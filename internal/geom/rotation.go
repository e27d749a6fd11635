package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotationMatrix returns the 3x3 matrix that rotates a vector in the
// platform body frame (azimuth then elevation) into the world frame.
// Used (through InverseRotate) by antenna-pattern plotting, which wants
// a dense matrix rather than repeated S3 arithmetic.
func RotationMatrix(azimuth, elevation float64) *mat.Dense {
	cz, sz := math.Cos(azimuth), math.Sin(azimuth)
	rz := mat.NewDense(3, 3, []float64{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	})

	ce, se := math.Cos(elevation), math.Sin(elevation)
	ry := mat.NewDense(3, 3, []float64{
		ce, 0, -se,
		0, 1, 0,
		se, 0, ce,
	})

	var out mat.Dense
	out.Mul(rz, ry)
	return &out
}

// Rotate applies the platform-body-to-world rotation for (azimuth,
// elevation) to v, returning the world-frame vector.
func Rotate(azimuth, elevation float64, v V3) V3 {
	return mulRotation(RotationMatrix(azimuth, elevation), v)
}

// InverseRotate applies the world-to-body rotation for (azimuth,
// elevation) to v: the transpose of RotationMatrix, since a rotation
// matrix is orthogonal. Used by antenna-pattern plotting to turn a
// world-frame look direction into the body-frame angle a platform's
// pattern is actually evaluated at.
func InverseRotate(azimuth, elevation float64, v V3) V3 {
	var t mat.Dense
	t.CloneFrom(RotationMatrix(azimuth, elevation).T())
	return mulRotation(&t, v)
}

func mulRotation(r mat.Matrix, v V3) V3 {
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(r, in)
	return V3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
