package host

import (
	"testing"

	"anm-exporter/internal/mathutil"

	"github.com/stretchr/testify/assert"
)

type curveHost struct {
	curves map[string][]Curve
}

func (curveHost) Armature() Armature { return Armature{} }
func (curveHost) FPS() float64 { return 30 }
func (curveHost) FrameRange() (int, int) { return 0, 0 }
func (curveHost) SetTime(float64) {}
func (curveHost) BonePose(string) (mathutil.Mat4, bool) { return mathutil.Mat4Identity(), true }
func (h curveHost) Curves(b string) []Curve { return h.curves[b] }
func (h curveHost) HasAnimation() bool { return len(h.curves) > 0 }

func TestKeyframeTimes(t *testing.T) {
	h := curveHost{curves: map[string][]Curve{
		"Hip": {
			{Property: Location, Axis: 0, Keys: []Keyframe{{Frame: 5}, {Frame: 0}}},
			{Property: Location, Axis: 2, Keys: []Keyframe{{Frame: 5}, {Frame: 2.5}}},
			{Property: Scale, Axis: 0, Keys: []Keyframe{{Frame: 9}}},
		},
		"Empty": {{Property: Location}},
	}}
	assert.Equal(t, []float64{0, 2.5, 5}, KeyframeTimes(h, "Hip", Location))
	assert.Equal(t, []float64{9}, KeyframeTimes(h, "Hip", Scale))
	assert.Empty(t, KeyframeTimes(h, "Hip", RotationEuler))
	assert.Equal(t, []float64{0, 2.5, 5, 9}, KeyframeTimes(h, "Hip"))
	assert.Equal(t, []float64{0, 2.5, 5, 9}, KeyframeTimes(h, "Hip", Scale, Location))
	assert.Empty(t, KeyframeTimes(h, "Spine"))

	assert.True(t, IsKeyed(h, "Hip"))
	assert.True(t, IsKeyed(h, "Empty"))
	assert.False(t, IsKeyed(h, "Spine"))
}

func TestCurveEval(t *testing.T) {
	c := Curve{Keys: []Keyframe{{Frame: 10, Value: 4}, {Frame: 0, Value: 0}, {Frame: 20, Value: 4}}}.Sorted()
	assert.Equal(t, 0.0, c.Eval(-3))
	assert.InDelta(t, 2.0, c.Eval(5), 1e-12)
	assert.InDelta(t, 4.0, c.Eval(15), 1e-12)
	assert.Equal(t, 4.0, c.Eval(30))
	assert.Equal(t, 0.0, Curve{}.Eval(1))
}

func TestProperty(t *testing.T) {
	assert.Equal(t, 4, RotationQuaternion.Axes())
	assert.Equal(t, 3, Scale.Axes())
	p, ok := ParseProperty("rotation_euler")
	assert.True(t, ok)
	assert.Equal(t, RotationEuler, p)
	assert.Equal(t, "rotation_euler", p.String())
	_, ok = ParseProperty("nope")
	assert.False(t, ok)
}
