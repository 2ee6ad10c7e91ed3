package preview

import (
	"image"
	"image/color"
	"math"
)

type canvas struct {
	img *image.NRGBA
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (c *canvas) fill(col color.NRGBA) {
	for i := 0; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2], c.img.Pix[i+3] = col.R, col.G, col.B, col.A
	}
}

func (c *canvas) set(x, y int, col color.NRGBA) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.SetNRGBA(x, y, col)
	}
}

// line draws a segment of the given thickness by stamping squares along it.
func (c *canvas) line(x0, y0, x1, y1 float64, col color.NRGBA, width int) {
	n := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if n == 0 {
		c.square(x0, y0, width, col)
		return
	}
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		c.square(x0+(x1-x0)*f, y0+(y1-y0)*f, width, col)
	}
}

// square fills a size×size block centred on (x, y).
func (c *canvas) square(x, y float64, size int, col color.NRGBA) {
	x0 := int(math.Round(x)) - size/2
	y0 := int(math.Round(y)) - size/2
	for dy := 0; dy < max(size, 1); dy++ {
		for dx := 0; dx < max(size, 1); dx++ {
			c.set(x0+dx, y0+dy, col)
		}
	}
}
