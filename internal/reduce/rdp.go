package reduce

import "math"

// Point is a (frame, value) sample of one curve.
type Point struct {
	X, Y float64
}

// RDP simplifies each authored curve with Ramer-Douglas-Peucker and then
// thins the union so kept frames are at least MinDistance apart.
type RDP struct {
	Tolerance   float64
	MinDistance int
}

func (RDP) Name() string { return string(ModeRDP) }

func (r RDP) SelectKeyframes(in Input) []float64 {
	fs := newFrameSet(in)
	for _, b := range in.Bones {
		for _, c := range b.Curves {
			if len(c.Keys) <= 2 {
				continue
			}
			keys := sortedKeys(c.Keys)
			pts := make([]Point, len(keys))
			for i, k := range keys {
				pts[i] = Point{X: k.Frame, Y: k.Value}
			}
			for _, p := range Simplify(pts, r.Tolerance) {
				fs.add(math.Trunc(p.X))
			}
		}
	}
	frames := fs.sorted()
	if r.MinDistance > 1 {
		frames = EnforceMinDistance(frames, float64(r.MinDistance))
	}
	return frames
}

// Simplify runs Ramer-Douglas-Peucker over pts, which must be sorted by X.
// A non-positive tolerance keeps every point.
func Simplify(pts []Point, tolerance float64) []Point {
	if len(pts) <= 2 || tolerance <= 0 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	first, last := pts[0], pts[len(pts)-1]
	maxDist, index := 0.0, 0
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], first, last); d > maxDist {
			maxDist, index = d, i
		}
	}
	if maxDist <= tolerance {
		return []Point{first, last}
	}
	left := Simplify(pts[:index+1], tolerance)
	right := Simplify(pts[index:], tolerance)
	return append(left[:len(left)-1], right...)
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// EnforceMinDistance sweeps sorted frames left to right, keeping the first
// and last and dropping any frame closer than minDist to the last kept one.
func EnforceMinDistance(frames []float64, minDist float64) []float64 {
	if len(frames) <= 2 {
		return frames
	}
	out := []float64{frames[0]}
	for _, f := range frames[1 : len(frames)-1] {
		if f-out[len(out)-1] >= minDist {
			out = append(out, f)
		}
	}
	return append(out, frames[len(frames)-1])
}
