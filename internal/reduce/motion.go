package reduce

import (
	"math"
	"sort"

	"anm-exporter/internal/host"
)

// Motion keeps authored keys whose value moved by more than Threshold since
// the previous key of the same curve, or that follow a gap longer than
// MaxGap frames. The first key of every curve is kept.
type Motion struct {
	Threshold float64
	MaxGap    float64
}

func (Motion) Name() string { return string(ModeMotion) }

func (m Motion) SelectKeyframes(in Input) []float64 {
	fs := newFrameSet(in)
	for _, b := range in.Bones {
		for _, c := range b.Curves {
			for _, f := range m.curveFrames(c) {
				fs.add(f)
			}
		}
	}
	return fs.sorted()
}

func (m Motion) curveFrames(c host.Curve) []float64 {
	if len(c.Keys) == 0 {
		return nil
	}
	keys := sortedKeys(c.Keys)
	out := []float64{keys[0].Frame}
	for i := 1; i < len(keys); i++ {
		prev, cur := keys[i-1], keys[i]
		if math.Abs(cur.Value-prev.Value) > m.Threshold || cur.Frame-prev.Frame > m.MaxGap {
			out = append(out, cur.Frame)
		}
	}
	return out
}

func sortedKeys(keys []host.Keyframe) []host.Keyframe {
	out := make([]host.Keyframe, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}
