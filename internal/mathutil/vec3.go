package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3-component vector. It shares its layout with mgl64.Vec3.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 { return Vec3(mgl64.Vec3(a).Add(mgl64.Vec3(b))) }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3(mgl64.Vec3(a).Sub(mgl64.Vec3(b))) }

func (v Vec3) Scale(s float64) Vec3 { return Vec3(mgl64.Vec3(v).Mul(s)) }

func (a Vec3) Dot(b Vec3) float64 { return mgl64.Vec3(a).Dot(mgl64.Vec3(b)) }

func (v Vec3) Len() float64 { return mgl64.Vec3(v).Len() }

// ApproxEqual reports whether every component differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
