package host

import "sort"

// Sorted returns a copy of c with its keys ordered by frame.
func (c Curve) Sorted() Curve {
	keys := make([]Keyframe, len(c.Keys))
	copy(keys, c.Keys)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })
	c.Keys = keys
	return c
}

// Eval linearly interpolates the curve at frame, holding the first and last
// values outside the keyed range. Keys must be sorted. A curve without keys
// evaluates to 0.
func (c Curve) Eval(frame float64) float64 {
	keys := c.Keys
	switch {
	case len(keys) == 0:
		return 0
	case frame <= keys[0].Frame:
		return keys[0].Value
	case frame >= keys[len(keys)-1].Frame:
		return keys[len(keys)-1].Value
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
	a, b := keys[i-1], keys[i]
	t := (frame - a.Frame) / (b.Frame - a.Frame)
	return a.Value + (b.Value-a.Value)*t
}
