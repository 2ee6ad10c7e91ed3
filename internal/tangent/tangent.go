// Package tangent computes Hermite tangents for channels that were sampled
// rather than authored.
package tangent

import "anm-exporter/internal/anm"

// GapFactor bounds the neighbour distance, in nominal time steps, over which
// incoming and outgoing slopes are averaged.
const GapFactor = 1.5

// Synthesize fills the tangents of every keyframe in place. A channel with a
// single keyframe gets zero tangents. Channels with explicit tangents are left
// alone unless they have a single keyframe. When auto is false, sampled
// channels keep whatever tangents they already carry.
func Synthesize(ch *anm.Channel, timeStep float64, auto bool) {
	keys := ch.Keyframes
	if len(keys) == 1 {
		keys[0].InTangent, keys[0].OutTangent = 0, 0
		return
	}
	if len(keys) == 0 || ch.ExplicitTangents || !auto {
		return
	}
	in := make([]float64, len(keys))
	out := make([]float64, len(keys))
	for i := range keys {
		in[i], out[i] = At(keys, i, timeStep)
	}
	for i := range keys {
		keys[i].InTangent, keys[i].OutTangent = in[i], out[i]
	}
}

// At returns the Catmull-Rom style tangents of keys[i]; keys must hold at
// least two keyframes. The missing neighbour at either end is mirrored from
// the adjacent interval. Each side averages the incoming and outgoing slopes
// when its neighbour is within GapFactor time steps, and otherwise uses its
// own one-sided slope.
func At(keys []anm.Keyframe, i int, timeStep float64) (in, out float64) {
	x, y := keys[i].Time, keys[i].Value

	var prevX, prevY, nextX, nextY float64
	switch i {
	case 0:
		nextX, nextY = keys[1].Time, keys[1].Value
		prevX, prevY = x-(nextX-x), y-(nextY-y)
	case len(keys) - 1:
		prevX, prevY = keys[i-1].Time, keys[i-1].Value
		nextX, nextY = x+(x-prevX), y+(y-prevY)
	default:
		prevX, prevY = keys[i-1].Time, keys[i-1].Value
		nextX, nextY = keys[i+1].Time, keys[i+1].Value
	}

	prevSlope := (prevY - y) / (prevX - x)
	nextSlope := (nextY - y) / (nextX - x)
	joined := (prevSlope + nextSlope) / 2

	limit := timeStep * GapFactor
	in, out = prevSlope, nextSlope
	if x-prevX <= limit {
		in = joined
	}
	if nextX-x <= limit {
		out = joined
	}
	return in, out
}
