package sampler

import (
	"fmt"
	"strings"

	"anm-exporter/internal/mathutil"
)

// UniformFrames spreads count frames linearly over [start, end]. A count of
// -1 selects every integer frame; a count of 1, or start == end, selects
// only start. Intermediate frames may be fractional.
func UniformFrames(start, end int, count int) []float64 {
	if count == -1 {
		count = end - start + 1
	}
	if count <= 1 || start == end {
		return []float64{float64(start)}
	}
	frames := make([]float64, count)
	step := float64(end-start) / float64(count-1)
	for i := range frames {
		frames[i] = float64(start) + step*float64(i)
	}
	frames[count-1] = float64(end)
	return frames
}

// InvalidBone summarizes the degenerate frames of one bone.
type InvalidBone struct {
	Bone   string
	First  float64
	Last   float64
	Count  int
	Matrix mathutil.Mat4
}

func (b InvalidBone) String() string {
	m := b.Matrix
	var sb strings.Builder
	fmt.Fprintf(&sb, "bone %q had an invalid matrix during frames %d - %d:", b.Bone, int(b.First), int(b.Last))
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&sb, "\n  [%9.4f %9.4f %9.4f %9.4f]", m[r*4], m[r*4+1], m[r*4+2], m[r*4+3])
	}
	return sb.String()
}

// Summarize groups warnings per bone in order of first appearance, keeping
// the first failing matrix of each bone.
func Summarize(ws []*DegenerateTransform) []InvalidBone {
	var out []InvalidBone
	index := make(map[string]int)
	for _, w := range ws {
		i, ok := index[w.Bone]
		if !ok {
			index[w.Bone] = len(out)
			out = append(out, InvalidBone{Bone: w.Bone, First: w.Frame, Last: w.Frame, Count: 1, Matrix: w.Matrix})
			continue
		}
		out[i].Last = w.Frame
		out[i].Count++
	}
	return out
}
