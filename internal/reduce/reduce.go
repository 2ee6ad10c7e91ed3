// Package reduce selects which frames of an export range are sampled.
//
// Every strategy returns a sorted, duplicate-free frame list that contains
// the first and last frame of the range. Frames outside the range are
// discarded.
package reduce

import (
	"fmt"
	"sort"

	"anm-exporter/internal/host"
)

// BoneCurves is the authored animation of one exported bone. Frames holds
// the sorted distinct authored frames across all of its curves.
type BoneCurves struct {
	Bone   string
	Curves []host.Curve
	Frames []float64
}

// Input is what a strategy sees of the scene.
type Input struct {
	Start, End int
	Bones      []BoneCurves
}

// Frames returns the number of frames in the inclusive range.
func (in Input) Frames() int {
	return in.End - in.Start + 1
}

// Reducer is a keyframe selection strategy.
type Reducer interface {
	Name() string
	SelectKeyframes(in Input) []float64
}

// Mode names a strategy.
type Mode string

const (
	ModeSimple  Mode = "simple"
	ModeDensity Mode = "density"
	ModeMotion  Mode = "motion"
	ModeRDP     Mode = "rdp"
)

// Params carries the tunables of every strategy.
type Params struct {
	Step             int
	DensityThreshold float64
	DenseReduction   int
	MotionThreshold  float64
	MaxGap           float64
	RDPTolerance     float64
	RDPMinDistance   int
}

// DefaultParams returns the exporter defaults.
func DefaultParams() Params {
	return Params{
		Step:             2,
		DensityThreshold: 0.8,
		DenseReduction:   2,
		MotionThreshold:  0.001,
		MaxGap:           10,
		RDPTolerance:     0.01,
		RDPMinDistance:   2,
	}
}

// New returns the strategy for mode.
func New(mode Mode, p Params) (Reducer, error) {
	switch mode {
	case ModeSimple:
		return Decimation{Step: p.Step}, nil
	case ModeDensity, "":
		return Density{Threshold: p.DensityThreshold, Reduction: p.DenseReduction}, nil
	case ModeMotion:
		return Motion{Threshold: p.MotionThreshold, MaxGap: p.MaxGap}, nil
	case ModeRDP:
		return RDP{Tolerance: p.RDPTolerance, MinDistance: p.RDPMinDistance}, nil
	}
	return nil, fmt.Errorf("reduce: unknown mode %q", mode)
}

// frameSet accumulates candidate frames within a range.
type frameSet struct {
	start, end float64
	seen       map[float64]bool
}

func newFrameSet(in Input) *frameSet {
	fs := &frameSet{
		start: float64(in.Start),
		end:   float64(in.End),
		seen:  make(map[float64]bool),
	}
	fs.add(fs.start)
	fs.add(fs.end)
	return fs
}

func (fs *frameSet) add(f float64) {
	if f < fs.start || f > fs.end {
		return
	}
	fs.seen[f] = true
}

func (fs *frameSet) sorted() []float64 {
	out := make([]float64, 0, len(fs.seen))
	for f := range fs.seen {
		out = append(out, f)
	}
	sort.Float64s(out)
	return out
}
