package reduce

import "math"

// Density keeps every authored frame of sparse bones and every Reduction-th
// authored frame of dense ones. A bone is dense when its distinct authored
// frame count divided by the range length exceeds Threshold.
type Density struct {
	Threshold float64
	Reduction int
}

func (Density) Name() string { return string(ModeDensity) }

func (d Density) SelectKeyframes(in Input) []float64 {
	fs := newFrameSet(in)
	for _, b := range in.Bones {
		for _, f := range d.boneFrames(in, b) {
			fs.add(f)
		}
	}
	return fs.sorted()
}

func (d Density) boneFrames(in Input, b BoneCurves) []float64 {
	var frames []float64
	for _, f := range b.Frames {
		f = math.Trunc(f)
		if n := len(frames); n == 0 || frames[n-1] != f {
			frames = append(frames, f)
		}
	}
	if len(frames) == 0 {
		return nil
	}

	ratio := float64(len(frames)) / float64(in.Frames())
	if ratio <= d.Threshold {
		return frames
	}
	step := d.Reduction
	if step < 1 {
		step = 1
	}
	thinned := make([]float64, 0, len(frames)/step+1)
	for i := 0; i < len(frames); i += step {
		thinned = append(thinned, frames[i])
	}
	return thinned
}
