// Package scene loads a JSON scene description and exposes it as a host.Host.
//
// A scene file lists bones with their rest pose relative to the parent, the
// authored curves per bone and the playback settings:
//
//	{
//	  "fps": 30, "frame_start": 0, "frame_end": 40,
//	  "properties": {"BoneData:0": "Hand,0,Hip,0,0"},
//	  "bones": [{"name": "Hip", "head": [0, 0, 1]}, {"name": "Spine", "parent": "Hip", "head": [0, 0.2, 0]}],
//	  "curves": {"Spine": [{"property": "location", "axis": 2, "keys": [{"frame": 0, "value": 0}]}]}
//	}
package scene

import (
	"fmt"
	"io"
	"os"

	"anm-exporter/internal/host"
	"anm-exporter/internal/mathutil"
	"anm-exporter/internal/skeleton"

	"github.com/bytedance/sonic"
)

type fileBone struct {
	Name   string    `json:"name"`
	Parent string    `json:"parent"`
	Head   []float64 `json:"head"`
	// Rest rotation as a quaternion (x, y, z, w).
	Rotation []float64 `json:"rotation"`
}

type fileKey struct {
	Frame float64 `json:"frame"`
	Value float64 `json:"value"`
}

type fileCurve struct {
	Property string    `json:"property"`
	Axis     int       `json:"axis"`
	Keys     []fileKey `json:"keys"`
}

type file struct {
	FPS        float64                `json:"fps"`
	FrameStart int                    `json:"frame_start"`
	FrameEnd   int                    `json:"frame_end"`
	Properties map[string]string      `json:"properties"`
	Bones      []fileBone             `json:"bones"`
	Curves     map[string][]fileCurve `json:"curves"`
}

// Scene is an in-memory scene. It is not safe for concurrent use.
type Scene struct {
	fps        float64
	start, end int
	props      map[string]string
	skel       *skeleton.Skeleton
	rest       map[string]mathutil.Transform
	curves     map[string][]host.Curve

	time  float64
	poses map[string]mathutil.Mat4
}

// Load reads a scene file from path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a scene from r.
func Decode(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("scene: read: %w", err)
	}
	var sf file
	if err := sonic.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if sf.FPS <= 0 {
		return nil, fmt.Errorf("scene: fps must be positive, got %g", sf.FPS)
	}
	if sf.FrameEnd < sf.FrameStart {
		return nil, fmt.Errorf("scene: frame_end %d before frame_start %d", sf.FrameEnd, sf.FrameStart)
	}

	bones := make([]skeleton.Bone, len(sf.Bones))
	rest := make(map[string]mathutil.Transform, len(sf.Bones))
	for i, b := range sf.Bones {
		bones[i] = skeleton.Bone{Name: b.Name, Parent: b.Parent}
		t := mathutil.IdentityTransform()
		if len(b.Head) != 0 {
			if len(b.Head) != 3 {
				return nil, fmt.Errorf("scene: bone %q: head needs 3 components", b.Name)
			}
			t.Translation = mathutil.Vec3{b.Head[0], b.Head[1], b.Head[2]}
		}
		if len(b.Rotation) != 0 {
			if len(b.Rotation) != 4 {
				return nil, fmt.Errorf("scene: bone %q: rotation needs 4 components", b.Name)
			}
			t.Rotation = mathutil.Quat{b.Rotation[0], b.Rotation[1], b.Rotation[2], b.Rotation[3]}.Normalize()
		}
		rest[b.Name] = t
	}
	skel, err := skeleton.New(bones)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	curves := make(map[string][]host.Curve, len(sf.Curves))
	for bone, fcs := range sf.Curves {
		if !skel.Has(bone) {
			return nil, fmt.Errorf("scene: curves for unknown bone %q", bone)
		}
		for _, fc := range fcs {
			prop, ok := host.ParseProperty(fc.Property)
			if !ok {
				return nil, fmt.Errorf("scene: bone %q: unknown property %q", bone, fc.Property)
			}
			if fc.Axis < 0 || fc.Axis >= prop.Axes() {
				return nil, fmt.Errorf("scene: bone %q: %s has no axis %d", bone, prop, fc.Axis)
			}
			c := host.Curve{Property: prop, Axis: fc.Axis, Keys: make([]host.Keyframe, len(fc.Keys))}
			for i, k := range fc.Keys {
				c.Keys[i] = host.Keyframe{Frame: k.Frame, Value: k.Value}
			}
			curves[bone] = append(curves[bone], c.Sorted())
		}
	}

	return &Scene{
		fps:    sf.FPS,
		start:  sf.FrameStart,
		end:    sf.FrameEnd,
		props:  sf.Properties,
		skel:   skel,
		rest:   rest,
		curves: curves,
		time:   float64(sf.FrameStart),
	}, nil
}

func (s *Scene) Armature() host.Armature {
	props := make(map[string]string, len(s.props))
	for k, v := range s.props {
		props[k] = v
	}
	return host.Armature{Bones: s.skel.Bones(), Properties: props}
}

func (s *Scene) FPS() float64 { return s.fps }

func (s *Scene) FrameRange() (start, end int) { return s.start, s.end }

// SetTime moves the frame cursor. Poses are recomputed on the next read.
func (s *Scene) SetTime(frame float64) {
	if frame != s.time {
		s.poses = nil
	}
	s.time = frame
}

func (s *Scene) BonePose(bone string) (mathutil.Mat4, bool) {
	if !s.skel.Has(bone) {
		return mathutil.Mat4{}, false
	}
	if s.poses == nil {
		s.poses = skeleton.ComposeArmature(s.skel, s.local)
	}
	return s.poses[bone], true
}

func (s *Scene) Curves(bone string) []host.Curve {
	return s.curves[bone]
}

func (s *Scene) HasAnimation() bool {
	return len(s.curves) > 0
}

// local returns rest × pose for bone at the current time.
func (s *Scene) local(bone string) mathutil.Mat4 {
	return mathutil.Mat4Mul(s.rest[bone].Matrix(), s.PoseBasis(bone).Matrix())
}

// PoseBasis evaluates the bone's curves at the current time. Properties
// without curves keep their identity value.
func (s *Scene) PoseBasis(bone string) mathutil.Transform {
	t := mathutil.IdentityTransform()
	var quat [4]float64 // w, x, y, z
	quat[0] = 1
	var euler [3]float64
	hasQuat, hasEuler := false, false

	for _, c := range s.curves[bone] {
		v := c.Eval(s.time)
		switch c.Property {
		case host.Location:
			t.Translation[c.Axis] = v
		case host.Scale:
			t.Scale[c.Axis] = v
		case host.RotationQuaternion:
			quat[c.Axis] = v
			hasQuat = true
		case host.RotationEuler:
			euler[c.Axis] = v
			hasEuler = true
		}
	}

	switch {
	case hasQuat:
		q := mathutil.Quat{quat[1], quat[2], quat[3], quat[0]}
		if q.Dot(q) > 0 {
			t.Rotation = q.Normalize()
		}
	case hasEuler:
		t.Rotation = mathutil.EulerToQuat(euler[0], euler[1], euler[2])
	}
	return t
}
