// Package preview renders channel curves of an exported track to an image,
// evaluating the Hermite segments the engine plays back.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"anm-exporter/internal/anm"
)

// ErrEmptyTrack is returned when a track has no keyframes to plot.
var ErrEmptyTrack = errors.New("preview: track has no keyframes")

// Options controls plot size and sampling.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downscaling. Values below 2 disable it.
	Supersample int
	// Steps is the number of evaluations per keyframe segment.
	Steps int
	// Channels restricts the plot; empty means every channel of the track.
	Channels []anm.ChannelID
}

// DefaultOptions returns a 1024×512 plot with 2× supersampling.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 512, Supersample: 2, Steps: 16}
}

var (
	background = color.NRGBA{255, 255, 255, 255}
	gridColor  = color.NRGBA{208, 208, 208, 255}
	keyColor   = color.NRGBA{32, 32, 32, 255}
)

// ChannelColor returns the stroke colour used for id. Rotation channels are
// warm, position channels green and scale channels blue.
func ChannelColor(id anm.ChannelID) color.NRGBA {
	switch id {
	case anm.RotationX:
		return color.NRGBA{220, 50, 47, 255}
	case anm.RotationY:
		return color.NRGBA{203, 75, 22, 255}
	case anm.RotationZ:
		return color.NRGBA{181, 137, 0, 255}
	case anm.RotationW:
		return color.NRGBA{211, 54, 130, 255}
	case anm.PositionX:
		return color.NRGBA{133, 153, 0, 255}
	case anm.PositionY:
		return color.NRGBA{42, 161, 152, 255}
	case anm.PositionZ:
		return color.NRGBA{0, 110, 60, 255}
	case anm.ScaleX, anm.ScaleY, anm.ScaleZ:
		return color.NRGBA{38, 139, 210, 255}
	default:
		return color.NRGBA{108, 113, 196, 255}
	}
}

// Hermite evaluates the segment from a to b at normalized t in [0, 1] using
// a's out tangent and b's in tangent.
func Hermite(a, b anm.Keyframe, t float64) float64 {
	dt := b.Time - a.Time
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*a.Value + h10*dt*a.OutTangent + h01*b.Value + h11*dt*b.InTangent
}

// Point is one evaluated sample of a curve.
type Point struct{ T, V float64 }

// Curve evaluates ch at steps points per segment, keyframes included.
func Curve(ch anm.Channel, steps int) []Point {
	keys := ch.Keyframes
	if len(keys) == 0 {
		return nil
	}
	if steps < 1 {
		steps = 1
	}
	pts := []Point{{keys[0].Time, keys[0].Value}}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		for s := 1; s <= steps; s++ {
			u := float64(s) / float64(steps)
			pts = append(pts, Point{a.Time + u*(b.Time-a.Time), Hermite(a, b, u)})
		}
	}
	return pts
}

// Plot renders the selected channels of tr.
func Plot(tr anm.Track, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", opts.Width, opts.Height)
	}
	ss := max(opts.Supersample, 1)

	want := make(map[anm.ChannelID]bool, len(opts.Channels))
	for _, id := range opts.Channels {
		want[id] = true
	}

	type series struct {
		id   anm.ChannelID
		pts  []Point
		keys []anm.Keyframe
	}
	var all []series
	tMin, tMax := math.Inf(1), math.Inf(-1)
	vMin, vMax := math.Inf(1), math.Inf(-1)
	for _, ch := range tr.Channels {
		if len(want) > 0 && !want[ch.ID] {
			continue
		}
		pts := Curve(ch, opts.Steps)
		if len(pts) == 0 {
			continue
		}
		for _, p := range pts {
			tMin, tMax = math.Min(tMin, p.T), math.Max(tMax, p.T)
			vMin, vMax = math.Min(vMin, p.V), math.Max(vMax, p.V)
		}
		all = append(all, series{ch.ID, pts, ch.Keyframes})
	}
	if len(all) == 0 {
		return nil, ErrEmptyTrack
	}
	if tMax == tMin {
		tMax = tMin + 1
	}
	if vMax == vMin {
		vMin, vMax = vMin-1, vMax+1
	}

	w, h := opts.Width*ss, opts.Height*ss
	margin := float64(8 * ss)
	c := newCanvas(w, h)
	c.fill(background)

	px := func(t float64) float64 { return margin + (t-tMin)/(tMax-tMin)*(float64(w)-2*margin) }
	py := func(v float64) float64 { return float64(h) - margin - (v-vMin)/(vMax-vMin)*(float64(h)-2*margin) }

	if vMin < 0 && vMax > 0 {
		c.line(px(tMin), py(0), px(tMax), py(0), gridColor, ss)
	}
	for _, s := range all {
		col := ChannelColor(s.id)
		for i := 1; i < len(s.pts); i++ {
			a, b := s.pts[i-1], s.pts[i]
			c.line(px(a.T), py(a.V), px(b.T), py(b.V), col, ss)
		}
		for _, k := range s.keys {
			c.square(px(k.Time), py(k.Value), 2*ss, keyColor)
		}
	}

	if ss > 1 {
		return Downsample(c.img, opts.Width, opts.Height), nil
	}
	return c.img, nil
}
