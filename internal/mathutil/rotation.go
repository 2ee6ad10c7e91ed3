package mathutil

import "github.com/go-gl/mathgl/mgl64"

// RotX is a right-handed rotation of a radians about X.
func RotX(a float64) Mat3 {
	return Mat3(mgl64.Rotate3DX(a).Transpose())
}

// RotZ is a right-handed rotation of a radians about Z.
func RotZ(a float64) Mat3 {
	return Mat3(mgl64.Rotate3DZ(a).Transpose())
}
