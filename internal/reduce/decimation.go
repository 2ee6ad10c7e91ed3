package reduce

// Decimation keeps every Step-th frame from the start of the range.
type Decimation struct {
	Step int
}

func (Decimation) Name() string { return string(ModeSimple) }

func (d Decimation) SelectKeyframes(in Input) []float64 {
	fs := newFrameSet(in)
	step := d.Step
	if step < 1 {
		step = 1
	}
	for f := in.Start; f <= in.End; f += step {
		fs.add(float64(f))
	}
	return fs.sorted()
}
