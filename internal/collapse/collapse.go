// Package collapse drops samples that lie on a straight run between their
// neighbours.
package collapse

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the absolute per-component tolerance for comparing steps.
const Tolerance = 1e-6

// Key is one sampled vector value.
type Key struct {
	Time  float64
	Value []float64
}

// Collapser consumes the samples of one vector channel in time order and
// keeps only the endpoints of constant-slope runs. The run holds at most two
// keys: its first and its last.
type Collapser struct {
	enabled bool

	out      []Key
	run      []Key
	slope    []float64
	hasSlope bool
	count    int
}

// New returns a collapser. A disabled collapser keeps every sample.
func New(enabled bool) *Collapser {
	return &Collapser{enabled: enabled}
}

// Push feeds the next sample. value is copied.
func (c *Collapser) Push(time float64, value []float64) {
	k := Key{Time: time, Value: append([]float64(nil), value...)}
	c.count++

	if !c.enabled {
		c.out = append(c.out, k)
		return
	}
	if c.count == 1 {
		c.out = append(c.out, k)
		c.run = []Key{k}
		return
	}

	last := c.run[len(c.run)-1]
	step := make([]float64, len(k.Value))
	floats.SubTo(step, k.Value, last.Value)

	switch {
	case !c.hasSlope:
		c.slope, c.hasSlope = step, true
		c.run = []Key{last, k}
	case sameStep(step, c.slope):
		c.run[len(c.run)-1] = k
	default:
		c.out = append(c.out, last)
		c.slope = step
		c.run = []Key{last, k}
	}
}

// Finish flushes the final sample and returns the kept keys in time order.
// The collapser is reset.
func (c *Collapser) Finish() []Key {
	if c.enabled && c.count > 1 {
		c.out = append(c.out, c.run[len(c.run)-1])
	}
	out := c.out
	*c = Collapser{enabled: c.enabled}
	return out
}

func sameStep(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], Tolerance) {
			return false
		}
	}
	return true
}
