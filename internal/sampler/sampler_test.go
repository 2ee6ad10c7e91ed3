package sampler

import (
	"math"
	"testing"

	"anm-exporter/internal/host"
	"anm-exporter/internal/mathutil"
	"anm-exporter/internal/skeleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedHost struct {
	bones []skeleton.Bone
	poses map[string]func(frame float64) mathutil.Mat4
	frame float64
	calls []float64
}

func (h *scriptedHost) Armature() host.Armature { return host.Armature{Bones: h.bones} }
func (h *scriptedHost) FPS() float64 { return 30 }
func (h *scriptedHost) FrameRange() (int, int) { return 0, 10 }
func (h *scriptedHost) Curves(string) []host.Curve { return nil }
func (h *scriptedHost) HasAnimation() bool { return true }
func (h *scriptedHost) SetTime(frame float64) { h.frame = frame; h.calls = append(h.calls, frame) }
func (h *scriptedHost) BonePose(b string) (mathutil.Mat4, bool) {
	f, ok := h.poses[b]
	if !ok {
		return mathutil.Mat4{}, false
	}
	return f(h.frame), true
}

func translate(x, y, z float64) mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.Mat3Identity(), mathutil.Vec3{x, y, z})
}

func hipSpine(t *testing.T, spine func(float64) mathutil.Mat4, hip func(float64) mathutil.Mat4) (*scriptedHost, *skeleton.ParentMap) {
	t.Helper()
	bones := []skeleton.Bone{{Name: "Hip"}, {Name: "Spine", Parent: "Hip"}}
	s, err := skeleton.New(bones)
	require.NoError(t, err)
	pm, _, err := skeleton.Resolve(s, nil, false)
	require.NoError(t, err)
	if hip == nil {
		hip = func(float64) mathutil.Mat4 { return mathutil.Mat4Identity() }
	}
	return &scriptedHost{
		bones: bones,
		poses: map[string]func(float64) mathutil.Mat4{"Hip": hip, "Spine": spine},
	}, pm
}

func TestSampleSingleFrameRange(t *testing.T) {
	h, pm := hipSpine(t, func(float64) mathutil.Mat4 { return translate(0, 0, 1) }, nil)
	s := New(h, pm, []string{"Hip", "Spine"}, Options{Start: 4, FPS: 30, Scale: 0.2})

	got := s.Sample(UniformFrames(4, 4, -1))
	require.Len(t, got["Hip"], 1)
	require.Len(t, got["Spine"], 1)
	assert.Equal(t, 0.0, got["Spine"][0].Time)
	assert.True(t, got["Spine"][0].Transform.Translation.ApproxEqual(mathutil.Vec3{0, 0, 0.2}, 1e-9))
	assert.Equal(t, []float64{4}, h.calls)
}

func TestSampleTime(t *testing.T) {
	h, pm := hipSpine(t, func(float64) mathutil.Mat4 { return translate(0, 0, 1) }, nil)
	s := New(h, pm, []string{"Hip"}, Options{Start: 10, FPS: 30, Speed: 2, Scale: 1})

	got := s.Sample([]float64{10, 16, 16.5})
	require.Len(t, got["Hip"], 3)
	assert.InDelta(t, 0.1, got["Hip"][1].Time, 1e-12)
	assert.InDelta(t, 0.325/3, got["Hip"][2].Time, 1e-12)
	assert.Equal(t, 16.5, got["Hip"][2].Frame)
}

func TestSampleHemisphereContinuity(t *testing.T) {
	spin := func(f float64) mathutil.Mat4 {
		return mathutil.RotZ(f * 0.1).Mat4()
	}
	h, pm := hipSpine(t, spin, spin)
	frames := UniformFrames(0, 120, -1)
	s := New(h, pm, []string{"Hip"}, Options{FPS: 30, Scale: 1})

	got := s.Sample(frames)["Hip"]
	require.Len(t, got, len(frames))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Transform.Rotation.Dot(got[i].Transform.Rotation), 0.0, "frame %d", i)
	}
}

func TestSampleDegenerateBone(t *testing.T) {
	flat := mathutil.Mat3Diag(1, 0, 1).Mat4()
	spine := func(f float64) mathutil.Mat4 {
		if f == 1 || f == 2 {
			return flat
		}
		return translate(0, 0, 1)
	}
	h, pm := hipSpine(t, spine, nil)
	s := New(h, pm, []string{"Hip", "Spine"}, Options{FPS: 30, Scale: 1})

	got := s.Sample([]float64{0, 1, 2, 3})
	assert.Len(t, got["Hip"], 4)
	require.Len(t, got["Spine"], 2)
	assert.Equal(t, 3.0, got["Spine"][1].Frame)

	ws := s.TakeWarnings()
	require.Len(t, ws, 2)
	assert.ErrorIs(t, ws[0], mathutil.ErrSingular)
	assert.Equal(t, flat, ws[0].Matrix)
	assert.Empty(t, s.TakeWarnings())

	sum := Summarize(ws)
	require.Len(t, sum, 1)
	assert.Equal(t, InvalidBone{Bone: "Spine", First: 1, Last: 2, Count: 2, Matrix: flat}, sum[0])
	assert.Contains(t, sum[0].String(), "frames 1 - 2")
}

func TestSampleDegenerateParent(t *testing.T) {
	flat := mathutil.Mat3Diag(0, 1, 1).Mat4()
	hip := func(f float64) mathutil.Mat4 {
		if f == 1 {
			return flat
		}
		return mathutil.Mat4Identity()
	}
	h, pm := hipSpine(t, func(float64) mathutil.Mat4 { return translate(0, 0, 1) }, hip)
	s := New(h, pm, []string{"Hip", "Spine"}, Options{FPS: 30, Scale: 1})

	got := s.Sample([]float64{0, 1})
	assert.Len(t, got["Hip"], 1)
	assert.Len(t, got["Spine"], 1)

	ws := s.TakeWarnings()
	require.Len(t, ws, 2)
	assert.Equal(t, "Spine", ws[1].Bone)
	assert.Equal(t, flat, ws[1].Matrix)
}

func TestUniformFrames(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		count      int
		want       []float64
	}{
		{"every frame", 0, 4, -1, []float64{0, 1, 2, 3, 4}},
		{"three", 0, 10, 3, []float64{0, 5, 10}},
		{"fractional", 0, 3, 3, []float64{0, 1.5, 3}},
		{"single", 2, 9, 1, []float64{2}},
		{"empty range", 7, 7, 5, []float64{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniformFrames(tt.start, tt.end, tt.count))
		})
	}
	assert.False(t, math.IsNaN(UniformFrames(0, 1, 2)[1]))
}
