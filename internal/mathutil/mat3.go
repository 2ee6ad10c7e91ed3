package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3×3 matrix stored row-major. Reinterpreted as the column-major
// mgl64.Mat3 it is the transpose, which the helpers below rely on.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3(mgl64.Ident3())
}

func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3(mgl64.Diag3(mgl64.Vec3{x, y, z}))
}

func (m Mat3) mglT() mgl64.Mat3 { return mgl64.Mat3(m) }

// Mat3Mul returns a × b, computed as (bᵀaᵀ)ᵀ.
func Mat3Mul(a, b Mat3) Mat3 {
	return Mat3(b.mglT().Mul3(a.mglT()))
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3(m.mglT().Transpose().Mul3x1(mgl64.Vec3(v)))
}

func (m Mat3) Det() float64 {
	return m.mglT().Det()
}

// Inverse returns the inverse of m, or ErrSingular when |det| is below
// SingularEpsilon.
func (m Mat3) Inverse() (Mat3, error) {
	if d := m.Det(); d < SingularEpsilon && d > -SingularEpsilon {
		return Mat3{}, ErrSingular
	}
	return Mat3(m.mglT().Inv()), nil
}

func (m Mat3) Transpose() Mat3 {
	return Mat3(m.mglT().Transpose())
}

// Col returns column c.
func (m Mat3) Col(c int) Vec3 {
	return Vec3{m[c], m[3+c], m[6+c]}
}

// Mat4 promotes m to an affine 4×4 matrix with zero translation.
func (m Mat3) Mat4() Mat4 {
	return FromMat3Translation(m, Vec3{})
}
