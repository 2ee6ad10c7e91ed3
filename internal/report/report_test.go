package report

import (
	"bytes"
	"strings"
	"testing"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/builder"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func animation() *anm.Animation {
	return &anm.Animation{Version: 1000, Tracks: []anm.Track{
		{Path: "Bip01", Channels: []anm.Channel{
			{ID: anm.RotationX, Keyframes: []anm.Keyframe{{Time: 0}, {Time: 0.5}, {Time: 1}}},
			{ID: anm.PositionX, Keyframes: []anm.Keyframe{{Time: 0.25}, {Time: 2}}},
		}},
		{Path: "Bip01/ボーン/とても長い名前の骨", Channels: []anm.Channel{
			{ID: anm.RotationX, Keyframes: []anm.Keyframe{{Time: 0}}},
			{ID: anm.RotationY},
		}},
	}}
}

func TestRows(t *testing.T) {
	rows := Rows(animation())
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Path: "Bip01", Channels: 2, Keyframes: 5, Start: 0, End: 2}, rows[0])
	assert.Equal(t, 1, rows[1].Keyframes)
	assert.Equal(t, 0.0, rows[1].End)
}

func TestWrite(t *testing.T) {
	rep := &builder.Report{Frames: []float64{0, 2, 4}, TotalFrames: 10, Notes: []string{"record 3: unknown bone"}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, animation(), rep, 50))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.True(t, strings.HasPrefix(lines[0], "Track"))
	headerWidth := runewidth.StringWidth(lines[0])
	for _, l := range lines[2:4] {
		assert.Equal(t, headerWidth, runewidth.StringWidth(l), "row %q is aligned", l)
	}
	assert.Contains(t, lines[3], "…")
	assert.Contains(t, buf.String(), "2 tracks, 6 keyframes, version 1000")
	assert.Contains(t, buf.String(), "3 keyframes (vs 10 total) - 70.0% reduction")
	assert.Contains(t, buf.String(), "note: record 3: unknown bone")
}

func TestWriteWithoutReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &anm.Animation{}, nil, 0))
	assert.Contains(t, buf.String(), "0 tracks, 0 keyframes")
	assert.NotContains(t, buf.String(), "reduction")
}

func TestTerminalWidthFallback(t *testing.T) {
	assert.Equal(t, defaultWidth, TerminalWidth(nil))
}
