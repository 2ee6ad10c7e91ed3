package mathutil

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// SingularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const SingularEpsilon = 1e-12

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("mathutil: singular matrix")

// Mat4 is a 4×4 bone pose matrix stored row-major, so like Mat3 it reads
// as its own transpose through mgl64.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	return Mat4(mgl64.Mat4(b).Mul4(mgl64.Mat4(a)))
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 linear part and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Mat3 returns the upper-left linear part.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Inverse inverts an affine matrix. The bottom row is assumed to be (0,0,0,1).
func (m Mat4) Inverse() (Mat4, error) {
	inv, err := m.Mat3().Inverse()
	if err != nil {
		return Mat4{}, err
	}
	t := inv.MulVec3(m.Translation()).Scale(-1)
	return FromMat3Translation(inv, t), nil
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}
