package bmd

import (
	"fmt"
	"math"

	"anm-exporter/internal/host"
	"anm-exporter/internal/mathutil"
	"anm-exporter/internal/skeleton"
)

// DefaultFPS is the playback rate assumed for BMD actions.
const DefaultFPS = 30

// Clip exposes one action of a model as a host.Host. Frames are key
// indices; fractional frames slerp between neighbouring keys.
type Clip struct {
	model  *Model
	action int
	fps    float64

	skel   *skeleton.Skeleton
	index  map[string]int
	curves map[string][]host.Curve

	time  float64
	poses map[string]mathutil.Mat4
}

// Clip selects action for export. A non-positive fps means DefaultFPS.
func (m *Model) Clip(action int, fps float64) (*Clip, error) {
	if action < 0 || action >= len(m.Actions) {
		return nil, fmt.Errorf("bmd: action %d out of range (model has %d)", action, len(m.Actions))
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	var bones []skeleton.Bone
	index := make(map[string]int)
	for i, b := range m.Bones {
		if b.IsDummy {
			continue
		}
		parent := ""
		if b.Parent >= 0 && b.Parent < len(m.Bones) && b.Parent != i && !m.Bones[b.Parent].IsDummy {
			parent = m.Bones[b.Parent].Name
		}
		bones = append(bones, skeleton.Bone{Name: b.Name, Parent: parent})
		index[b.Name] = i
	}
	skel, err := skeleton.New(bones)
	if err != nil {
		return nil, fmt.Errorf("bmd: skeleton: %w", err)
	}

	c := &Clip{model: m, action: action, fps: fps, skel: skel, index: index}
	c.curves = c.buildCurves()
	return c, nil
}

// buildCurves exposes every key as authored so keyframe-aware reducers see
// the stored sampling.
func (c *Clip) buildCurves() map[string][]host.Curve {
	out := make(map[string][]host.Curve, len(c.index))
	keys := c.model.Actions[c.action].Keys
	if keys == 0 {
		return out
	}
	for name, i := range c.index {
		b := c.model.Bones[i]
		var curves []host.Curve
		for axis := 0; axis < 3; axis++ {
			loc := host.Curve{Property: host.Location, Axis: axis, Keys: make([]host.Keyframe, keys)}
			rot := host.Curve{Property: host.RotationEuler, Axis: axis, Keys: make([]host.Keyframe, keys)}
			for k := 0; k < keys; k++ {
				p := c.position(b, k)
				loc.Keys[k] = host.Keyframe{Frame: float64(k), Value: p[axis]}
				rot.Keys[k] = host.Keyframe{Frame: float64(k), Value: float64(b.Rotations[c.action][k][axis])}
			}
			curves = append(curves, loc, rot)
		}
		out[name] = curves
	}
	return out
}

func (c *Clip) position(b Bone, key int) mathutil.Vec3 {
	act := c.model.Actions[c.action]
	if act.LockPositions && c.isRoot(b) {
		key = 0
	}
	p := b.Positions[c.action][key]
	return mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

func (c *Clip) isRoot(b Bone) bool {
	sb, _ := c.skel.Bone(b.Name)
	return sb.Parent == ""
}

func (c *Clip) rotation(b Bone, key int) mathutil.Quat {
	r := b.Rotations[c.action][key]
	return mathutil.EulerToQuat(float64(r[0]), float64(r[1]), float64(r[2]))
}

func (c *Clip) Armature() host.Armature {
	return host.Armature{Bones: c.skel.Bones()}
}

func (c *Clip) FPS() float64 { return c.fps }

func (c *Clip) FrameRange() (start, end int) {
	keys := c.model.Actions[c.action].Keys
	if keys == 0 {
		return 0, 0
	}
	return 0, keys - 1
}

func (c *Clip) SetTime(frame float64) {
	if frame != c.time {
		c.poses = nil
	}
	c.time = frame
}

func (c *Clip) BonePose(bone string) (mathutil.Mat4, bool) {
	if !c.skel.Has(bone) {
		return mathutil.Mat4{}, false
	}
	if c.poses == nil {
		c.poses = skeleton.ComposeArmature(c.skel, c.local)
	}
	return c.poses[bone], true
}

func (c *Clip) Curves(bone string) []host.Curve { return c.curves[bone] }

func (c *Clip) HasAnimation() bool { return len(c.curves) > 0 }

// local interpolates the bone's keys at the current time. Translation is
// lerped and rotation slerped; times outside the clip clamp to its ends.
func (c *Clip) local(name string) mathutil.Mat4 {
	keys := c.model.Actions[c.action].Keys
	if keys == 0 {
		return mathutil.Mat4Identity()
	}
	b := c.model.Bones[c.index[name]]

	t := math.Max(0, math.Min(c.time, float64(keys-1)))
	k0 := int(math.Floor(t))
	k1 := min(k0+1, keys-1)
	f := t - float64(k0)

	p0, p1 := c.position(b, k0), c.position(b, k1)
	tr := mathutil.IdentityTransform()
	tr.Translation = p0.Add(p1.Sub(p0).Scale(f))
	tr.Rotation = mathutil.Slerp(c.rotation(b, k0), c.rotation(b, k1), f)
	return tr.Matrix()
}
