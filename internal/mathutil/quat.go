package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// Mat3ToQuat converts an orthonormal rotation matrix to a unit quaternion.
func Mat3ToQuat(m Mat3) Quat {
	// mgl64 is column-major.
	cm := mgl64.Mat4{
		m[0], m[3], m[6], 0,
		m[1], m[4], m[7], 0,
		m[2], m[5], m[8], 0,
		0, 0, 0, 1,
	}
	return fromMgl(mgl64.Mat4ToQuat(cm).Normalize())
}

func (q Quat) Dot(o Quat) float64 {
	return q[0]*o[0] + q[1]*o[1] + q[2]*o[2] + q[3]*o[3]
}

// Neg flips every component; the result encodes the same rotation.
func (q Quat) Neg() Quat {
	return Quat{-q[0], -q[1], -q[2], -q[3]}
}

func (q Quat) Normalize() Quat {
	return fromMgl(q.mgl().Normalize())
}

// AngleTo returns the angle in [0, 2π] of the rotation taking q to o,
// measured on the 4D sphere rather than folded to the shortest arc.
func (q Quat) AngleTo(o Quat) float64 {
	d := q.mgl().Normalize().Inverse().Mul(o.mgl().Normalize()).Normalize()
	w := math.Max(-1, math.Min(1, d.W))
	return 2 * math.Acos(w)
}

// Slerp interpolates from q to o by t along the shortest arc.
func Slerp(q, o Quat, t float64) Quat {
	if q.Dot(o) < 0 {
		o = o.Neg()
	}
	return fromMgl(mgl64.QuatSlerp(q.mgl(), o.mgl(), t))
}

func (q Quat) mgl() mgl64.Quat {
	return mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}}
}

func fromMgl(q mgl64.Quat) Quat {
	return Quat{q.V[0], q.V[1], q.V[2], q.W}
}
