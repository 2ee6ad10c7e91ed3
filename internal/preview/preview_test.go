package preview

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"anm-exporter/internal/anm"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func track() anm.Track {
	return anm.Track{Path: "Bip01", Channels: []anm.Channel{
		{ID: anm.PositionX, Keyframes: []anm.Keyframe{
			{Time: 0, Value: -1},
			{Time: 1, Value: 1},
			{Time: 2, Value: 0},
		}},
		{ID: anm.RotationW, Keyframes: []anm.Keyframe{{Time: 0, Value: 1}}},
	}}
}

func TestHermite(t *testing.T) {
	a := anm.Keyframe{Time: 0, Value: 0, OutTangent: 0}
	b := anm.Keyframe{Time: 2, Value: 4, InTangent: 0}
	assert.Equal(t, 0.0, Hermite(a, b, 0))
	assert.Equal(t, 4.0, Hermite(a, b, 1))
	assert.InDelta(t, 2.0, Hermite(a, b, 0.5), 1e-12)

	// Tangents matching the straight line reproduce it exactly.
	a.OutTangent, b.InTangent = 2, 2
	assert.InDelta(t, 1.0, Hermite(a, b, 0.25), 1e-12)
}

func TestCurve(t *testing.T) {
	pts := Curve(track().Channels[0], 4)
	require.Len(t, pts, 9)
	assert.Equal(t, Point{0, -1}, pts[0])
	assert.Equal(t, Point{1, 1}, pts[4])
	assert.Equal(t, Point{2, 0}, pts[8])
	assert.Nil(t, Curve(anm.Channel{}, 4))
}

func TestPlot(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 32

	img, err := Plot(track(), opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())

	drawn := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if img.NRGBAAt(x, y) != background {
				drawn++
			}
		}
	}
	assert.Greater(t, drawn, 0)

	opts.Channels = []anm.ChannelID{anm.ScaleX}
	_, err = Plot(track(), opts)
	assert.ErrorIs(t, err, ErrEmptyTrack)

	opts.Width = 0
	_, err = Plot(track(), opts)
	assert.ErrorContains(t, err, "invalid size")
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	out := Downsample(src, 4, 4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(2, 2))

	assert.Same(t, src, Downsample(src, 8, 8))
}

func TestEncode(t *testing.T) {
	img, err := Plot(track(), Options{Width: 16, Height: 8, Steps: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatWebP))
	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "RIFF", buf.String()[:4])
	assert.Equal(t, "WEBP", buf.String()[8:12])

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatTGA))
	back, err := tga.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())

	assert.Error(t, Encode(&buf, img, Format("png")))
}

func TestWriteFile(t *testing.T) {
	img, err := Plot(track(), Options{Width: 16, Height: 8})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "plot.webp"), img))
	require.NoError(t, WriteFile(filepath.Join(dir, "sub", "plot.TGA"), img))
	assert.FileExists(t, filepath.Join(dir, "sub", "plot.TGA"))

	assert.ErrorContains(t, WriteFile(filepath.Join(dir, "plot.png"), img), "unsupported image extension")
}
