// Package host defines the narrow capability interface the exporter needs
// from a 3D scene: frame stepping, armature-space poses and authored curves.
package host

import (
	"slices"
	"sort"

	"anm-exporter/internal/mathutil"
	"anm-exporter/internal/skeleton"
)

// Property identifies an animatable pose property of a bone.
type Property int

const (
	Location Property = iota
	RotationQuaternion
	RotationEuler
	Scale
)

var propertyNames = [...]string{"location", "rotation_quaternion", "rotation_euler", "scale"}

func (p Property) String() string {
	if p < 0 || int(p) >= len(propertyNames) {
		return "unknown"
	}
	return propertyNames[p]
}

// Axes returns the number of scalar components of p. Quaternion axis 0 is w.
func (p Property) Axes() int {
	if p == RotationQuaternion {
		return 4
	}
	return 3
}

// ParseProperty maps a property name back to its value.
func ParseProperty(s string) (Property, bool) {
	for i, n := range propertyNames {
		if n == s {
			return Property(i), true
		}
	}
	return 0, false
}

// Keyframe is one authored point on a curve. Frame may be fractional.
type Keyframe struct {
	Frame float64
	Value float64
}

// Curve is the authored animation of one component of one property.
type Curve struct {
	Property Property
	Axis     int
	Keys     []Keyframe
}

// Armature is the static part of a scene: bones in host order and the
// armature's custom properties (which may carry BoneData override records).
type Armature struct {
	Bones      []skeleton.Bone
	Properties map[string]string
}

// Host is implemented by scene adapters. SetTime mutates the host's frame
// cursor; every pose read afterwards reflects that frame.
type Host interface {
	Armature() Armature
	FPS() float64
	FrameRange() (start, end int)
	SetTime(frame float64)
	// BonePose returns the bone's current pose in armature space.
	BonePose(bone string) (mathutil.Mat4, bool)
	// Curves returns the authored curves of a bone; nil when it has none.
	Curves(bone string) []Curve
	// HasAnimation reports whether any authored animation is attached.
	HasAnimation() bool
}

// KeyframeTimes returns the sorted distinct frames authored on bone for the
// given properties, or for every property when none are given.
func KeyframeTimes(h Host, bone string, props ...Property) []float64 {
	return CurveKeyframeTimes(h.Curves(bone), props...)
}

// CurveKeyframeTimes is KeyframeTimes over an already fetched curve set.
func CurveKeyframeTimes(curves []Curve, props ...Property) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, c := range curves {
		if len(props) > 0 && !slices.Contains(props, c.Property) {
			continue
		}
		for _, k := range c.Keys {
			if !seen[k.Frame] {
				seen[k.Frame] = true
				out = append(out, k.Frame)
			}
		}
	}
	sort.Float64s(out)
	return out
}

// IsKeyed reports whether bone has at least one authored curve.
func IsKeyed(h Host, bone string) bool {
	return len(h.Curves(bone)) > 0
}
