// Package sampler steps a host through a set of frames and records the
// converted pose of every exported bone.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"anm-exporter/internal/convert"
	"anm-exporter/internal/host"
	"anm-exporter/internal/mathutil"
	"anm-exporter/internal/skeleton"
)

// DefaultFlipThreshold is the angle (radians) above which a new rotation is
// negated onto the previous sample's hemisphere.
const DefaultFlipThreshold = 5.0

// Sample is one converted pose. Time is in seconds from the export start.
type Sample struct {
	Frame     float64
	Time      float64
	Transform mathutil.Transform
}

// DegenerateTransform records a bone whose pose, or whose parent's pose,
// could not be inverted at a frame.
type DegenerateTransform struct {
	Bone   string
	Frame  float64
	Matrix mathutil.Mat4
	Err    error
}

func (e *DegenerateTransform) Error() string {
	return fmt.Sprintf("sampler: bone %q at frame %g: %v", e.Bone, e.Frame, e.Err)
}

func (e *DegenerateTransform) Unwrap() error { return e.Err }

// Options controls timing and conversion.
type Options struct {
	Start         int
	FPS           float64
	Speed         float64
	Scale         float64
	FlipThreshold float64
}

// Sampler owns the host's frame cursor for the duration of one build.
type Sampler struct {
	host  host.Host
	pm    *skeleton.ParentMap
	bones []string
	conv  convert.Converter
	opts  Options

	prev     map[string]mathutil.Quat
	warnings []*DegenerateTransform
}

// New prepares a sampler for bones, which must be covered by pm.
func New(h host.Host, pm *skeleton.ParentMap, bones []string, opts Options) *Sampler {
	if opts.Speed == 0 {
		opts.Speed = 1
	}
	if opts.FlipThreshold == 0 {
		opts.FlipThreshold = DefaultFlipThreshold
	}
	return &Sampler{
		host:  h,
		pm:    pm,
		bones: bones,
		conv:  convert.New(opts.Scale),
		opts:  opts,
		prev:  make(map[string]mathutil.Quat),
	}
}

// Time converts a frame number to seconds from the export start.
func (s *Sampler) Time(frame float64) float64 {
	return (frame - float64(s.opts.Start)) / s.opts.FPS / s.opts.Speed
}

// Sample visits frames in order, moving the host cursor to each, and returns
// the samples of every bone. Bones with a degenerate transform at a frame get
// no sample for that frame; see TakeWarnings.
func (s *Sampler) Sample(frames []float64) map[string][]Sample {
	out := make(map[string][]Sample, len(s.bones))
	for _, frame := range frames {
		s.host.SetTime(frame)
		t := s.Time(frame)
		for _, bone := range s.bones {
			tr, ok := s.sampleBone(bone, frame)
			if !ok {
				continue
			}
			out[bone] = append(out[bone], Sample{Frame: frame, Time: t, Transform: tr})
		}
	}
	return out
}

func (s *Sampler) sampleBone(bone string, frame float64) (mathutil.Transform, bool) {
	pose, ok := s.host.BonePose(bone)
	if !ok {
		return mathutil.Transform{}, false
	}
	parentPose := mathutil.Mat4Identity()
	parent, hasParent := s.pm.Parent(bone)
	if hasParent {
		if parentPose, ok = s.host.BonePose(parent); !ok {
			hasParent = false
		}
	}

	tr, err := s.conv.ConvertTransform(pose, parentPose, !hasParent)
	if err != nil {
		if errors.Is(err, mathutil.ErrSingular) {
			m := pose
			if hasParent && singular(parentPose) {
				m = parentPose
			}
			s.warnings = append(s.warnings, &DegenerateTransform{Bone: bone, Frame: frame, Matrix: m, Err: err})
		}
		return mathutil.Transform{}, false
	}

	if prev, seen := s.prev[bone]; seen && prev.AngleTo(tr.Rotation) > s.opts.FlipThreshold {
		tr.Rotation = tr.Rotation.Neg()
	}
	s.prev[bone] = tr.Rotation
	return tr, true
}

// TakeWarnings returns the degenerate transforms recorded since the last call
// and clears them.
func (s *Sampler) TakeWarnings() []*DegenerateTransform {
	w := s.warnings
	s.warnings = nil
	return w
}

func singular(m mathutil.Mat4) bool {
	return math.Abs(m.Mat3().Det()) < mathutil.SingularEpsilon
}
