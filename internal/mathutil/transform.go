package mathutil

import "math"

// Transform is an affine pose split into translation, rotation and scale.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform has zero translation, identity rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: Vec3{1, 1, 1}}
}

// Matrix composes T × R × S.
func (t Transform) Matrix() Mat4 {
	r := QuatToMat3(t.Rotation)
	s := t.Scale
	linear := Mat3{
		r[0] * s[0], r[1] * s[1], r[2] * s[2],
		r[3] * s[0], r[4] * s[1], r[5] * s[2],
		r[6] * s[0], r[7] * s[1], r[8] * s[2],
	}
	return FromMat3Translation(linear, t.Translation)
}

// Decompose splits an affine matrix into translation, rotation and scale.
// A mirrored matrix (negative determinant) yields negative scale on every
// axis so that the rotation stays proper. Shear is discarded.
func Decompose(m Mat4) (Transform, error) {
	lin := m.Mat3()
	det := lin.Det()
	if math.Abs(det) < SingularEpsilon {
		return Transform{}, ErrSingular
	}
	s := Vec3{lin.Col(0).Len(), lin.Col(1).Len(), lin.Col(2).Len()}
	if det < 0 {
		s = s.Scale(-1)
	}
	rot := Mat3{
		lin[0] / s[0], lin[1] / s[1], lin[2] / s[2],
		lin[3] / s[0], lin[4] / s[1], lin[5] / s[2],
		lin[6] / s[0], lin[7] / s[1], lin[8] / s[2],
	}
	return Transform{
		Translation: m.Translation(),
		Rotation:    Mat3ToQuat(rot),
		Scale:       s,
	}, nil
}
