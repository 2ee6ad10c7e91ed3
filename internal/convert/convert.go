// Package convert re-expresses armature-space bone poses in the target
// engine's parent-relative convention.
//
// The conversion runs in two stages and the order matters: the rotation basis
// (bones along +X) is applied to both child and parent before the parent is
// inverted, and only then is the spatial basis (mirror, Z-up to Y-up) applied.
// Inverting after the axis swap shears the result for non-uniformly scaled
// parents.
package convert

import (
	"fmt"
	"math"

	"anm-exporter/internal/mathutil"
)

var (
	rotBasis    = mathutil.BoneAlongX.Mat4()
	rotBasisInv = mathutil.BoneAlongX.Transpose().Mat4()
	boneBasis   = mathutil.BoneBasis.Mat4()
	boneInv     = mathutil.BoneBasis.Transpose().Mat4()
	worldBasis  = mathutil.WorldBasis.Mat4()
	worldInv    = mathutil.WorldBasis.Transpose().Mat4()
)

// Converter maps poses for one export. Scale multiplies every output
// translation.
type Converter struct {
	Scale float64
}

// New returns a converter with the given translation scale.
func New(scale float64) Converter {
	return Converter{Scale: scale}
}

// Convert maps the armature-space pose of a bone into the target convention.
// For non-root bones parentPose is the parent's armature-space pose and the
// result is relative to it; for roots parentPose is ignored.
func (c Converter) Convert(pose, parentPose mathutil.Mat4, isRoot bool) (mathutil.Mat4, error) {
	if singular(pose) {
		return mathutil.Mat4{}, fmt.Errorf("convert: bone pose: %w", mathutil.ErrSingular)
	}
	child := mathutil.Mat4Mul(pose, rotBasis)

	var out mathutil.Mat4
	if isRoot {
		out = mathutil.Mat4Mul(mathutil.Mat4Mul(worldBasis, child), boneInv)
	} else {
		parentInv, err := mathutil.Mat4Mul(parentPose, rotBasis).Inverse()
		if err != nil {
			return mathutil.Mat4{}, fmt.Errorf("convert: parent pose: %w", err)
		}
		local := mathutil.Mat4Mul(parentInv, child)
		out = mathutil.Mat4Mul(mathutil.Mat4Mul(boneBasis, local), boneInv)
	}
	return scaleTranslation(out, c.Scale), nil
}

// ConvertTransform is Convert followed by decomposition.
func (c Converter) ConvertTransform(pose, parentPose mathutil.Mat4, isRoot bool) (mathutil.Transform, error) {
	m, err := c.Convert(pose, parentPose, isRoot)
	if err != nil {
		return mathutil.Transform{}, err
	}
	t, err := mathutil.Decompose(m)
	if err != nil {
		return mathutil.Transform{}, fmt.Errorf("convert: decompose: %w", err)
	}
	return t, nil
}

// Unconvert inverts Convert, applying the inverse basis changes in reverse
// order. It recovers the armature-space pose from a converted matrix and the
// same parent pose.
func (c Converter) Unconvert(out, parentPose mathutil.Mat4, isRoot bool) (mathutil.Mat4, error) {
	if c.Scale == 0 {
		return mathutil.Mat4{}, fmt.Errorf("convert: zero scale: %w", mathutil.ErrSingular)
	}
	m := scaleTranslation(out, 1/c.Scale)

	var child mathutil.Mat4
	if isRoot {
		child = mathutil.Mat4Mul(mathutil.Mat4Mul(worldInv, m), boneBasis)
	} else {
		local := mathutil.Mat4Mul(mathutil.Mat4Mul(boneInv, m), boneBasis)
		child = mathutil.Mat4Mul(mathutil.Mat4Mul(parentPose, rotBasis), local)
	}
	return mathutil.Mat4Mul(child, rotBasisInv), nil
}

func singular(m mathutil.Mat4) bool {
	return math.Abs(m.Mat3().Det()) < mathutil.SingularEpsilon
}

func scaleTranslation(m mathutil.Mat4, s float64) mathutil.Mat4 {
	m[3] *= s
	m[7] *= s
	m[11] *= s
	return m
}
