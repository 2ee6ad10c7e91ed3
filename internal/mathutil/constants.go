package mathutil

import "math"

// Basis changes between the source (Z-up, right-handed, bones along local +Y)
// and target (Y-up, left-handed, bones along local +X) skeletal conventions.
var (
	// ZUpToYUp converts Z-up to Y-up: Rx(-90°).
	ZUpToYUp = RotX(math.Pi / -2)

	// MirrorX converts right-handed to left-handed: diag(-1, 1, 1).
	MirrorX = Mat3Diag(-1, 1, 1)

	// BoneAlongX re-expresses bone-local axes so the bone length runs along +X
	// instead of +Y: Rz(90°).
	BoneAlongX = RotZ(math.Pi / 2)

	// WorldBasis maps source world axes onto target world axes.
	// MIRROR_X @ Rx(-90°)
	WorldBasis = Mat3Mul(MirrorX, ZUpToYUp)

	// BoneBasis maps source bone-space axes onto target bone-space axes.
	BoneBasis = MirrorX
)
