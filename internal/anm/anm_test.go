package anm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `{
  "Spine": {"path": "Hip/Spine", "channels": {
    "104": [{"frame": 0, "f0": 0.1, "f1": 0, "f2": 0.5}, {"frame": 0.5, "f0": 0.2, "f1": 0.5, "f2": 0}],
    "100": [{"frame": 0, "f0": 0, "f1": 0, "f2": 0}]
  }},
  "Hip": {"path": "Hip", "channels": {
    "103": [{"frame": 0, "f0": 1, "f1": 0, "f2": 0}],
    "105": []
  }}
}`

func TestDecodeText(t *testing.T) {
	a, err := DecodeText(strings.NewReader(sampleText), TextOptions{})
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, a.Version)
	require.Len(t, a.Tracks, 2)
	assert.Equal(t, "Hip", a.Tracks[0].Path)
	assert.Equal(t, "Hip/Spine", a.Tracks[1].Path)

	// Empty channels are dropped.
	require.Len(t, a.Tracks[0].Channels, 1)
	assert.Equal(t, RotationW, a.Tracks[0].Channels[0].ID)

	spine := a.Tracks[1]
	require.Len(t, spine.Channels, 2)
	assert.Equal(t, RotationX, spine.Channels[0].ID)
	assert.Equal(t, PositionX, spine.Channels[1].ID)
	assert.True(t, spine.Channels[1].ExplicitTangents)
	assert.Equal(t, Keyframe{Time: 0.5, Value: 0.2, InTangent: 0.5}, spine.Channels[1].Keyframes[1])
	assert.Equal(t, 4, a.KeyframeCount())
}

func TestDecodeTextErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"id too large", `{"A": {"path": "A", "channels": {"256": [{"frame": 0, "f0": 0, "f1": 0, "f2": 0}]}}}`},
		{"negative id", `{"A": {"path": "A", "channels": {"-1": []}}}`},
		{"non numeric id", `{"A": {"path": "A", "channels": {"rot": []}}}`},
		{"duplicate time", `{"A": {"path": "A", "channels": {"100": [{"frame": 1, "f0": 0, "f1": 0, "f2": 0}, {"frame": 1, "f0": 1, "f1": 0, "f2": 0}]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeText(strings.NewReader(tt.text), TextOptions{})
			assert.ErrorIs(t, err, ErrInvalidChannel)
		})
	}

	_, err := DecodeText(strings.NewReader(`{"A": `), TextOptions{})
	assert.Error(t, err)
}

func TestDecodeTextRejectsRepeatedChannel(t *testing.T) {
	doc := `{"Hip": {"path": "Hip", "channels": {
		"100": [{"frame": 0, "f0": 1, "f1": 0, "f2": 0}],
		" 100": [{"frame": 0.5, "f0": 2, "f1": 0, "f2": 0}]
	}}}`
	_, err := DecodeText(strings.NewReader(doc), TextOptions{})
	var ce *ChannelError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Hip", ce.Path)
	assert.Equal(t, 100, ce.Channel)
	assert.ErrorIs(t, err, ErrInvalidChannel)

	a := &Animation{Tracks: []Track{{Path: "Hip", Channels: []Channel{
		{ID: PositionX, Keyframes: []Keyframe{{Time: 0}}},
		{ID: PositionX, Keyframes: []Keyframe{{Time: 1}}},
	}}}}
	assert.ErrorIs(t, a.Validate(), ErrInvalidChannel)
}

func TestDecodeTextPathFallback(t *testing.T) {
	a, err := DecodeText(strings.NewReader(`{"Root": {"channels": {"7": [{"frame": 0, "f0": 3, "f1": 0, "f2": 0}]}}}`), TextOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Root", a.Tracks[0].Path)
	assert.Equal(t, ChannelID(7), a.Tracks[0].Channels[0].ID)
	assert.Equal(t, "Channel7", a.Tracks[0].Channels[0].ID.String())
}

func TestEncodeTextIsStable(t *testing.T) {
	a, err := DecodeText(strings.NewReader(sampleText), TextOptions{})
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, EncodeText(&first, a, TextOptions{}))
	require.NoError(t, EncodeText(&second, a, TextOptions{}))
	assert.Equal(t, first.String(), second.String())
	assert.Less(t, strings.Index(first.String(), `"100"`), strings.Index(first.String(), `"104"`))

	back, err := DecodeText(&first, TextOptions{})
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestEncodeTextDuplicateBoneNames(t *testing.T) {
	a := &Animation{Tracks: []Track{
		{Path: "L/Hand", Channels: []Channel{{ID: PositionX, Keyframes: []Keyframe{{Value: 1}}}}},
		{Path: "R/Hand", Channels: []Channel{{ID: PositionX, Keyframes: []Keyframe{{Value: 2}}}}},
	}}
	var buf bytes.Buffer
	require.NoError(t, EncodeText(&buf, a, TextOptions{}))

	back, err := DecodeText(&buf, TextOptions{})
	require.NoError(t, err)
	require.Len(t, back.Tracks, 2)
	assert.Equal(t, "L/Hand", back.Tracks[0].Path)
	assert.Equal(t, "R/Hand", back.Tracks[1].Path)
}

func TestTextShiftJIS(t *testing.T) {
	a := &Animation{Version: DefaultVersion, Tracks: []Track{
		{Path: "Bip01/右腕", Channels: []Channel{{ID: RotationW, Keyframes: []Keyframe{{Value: 1}}, ExplicitTangents: true}}},
	}}
	var buf bytes.Buffer
	require.NoError(t, EncodeText(&buf, a, TextOptions{ShiftJIS: true}))
	assert.NotContains(t, buf.String(), "右腕")

	back, err := DecodeText(&buf, TextOptions{ShiftJIS: true})
	require.NoError(t, err)
	assert.Equal(t, "Bip01/右腕", back.Tracks[0].Path)
}

func TestValidate(t *testing.T) {
	a := &Animation{Tracks: []Track{{Path: "Hip", Channels: []Channel{
		{ID: PositionY, Keyframes: []Keyframe{{Time: 0}, {Time: 0.2}, {Time: 0.1}}},
	}}}}
	err := a.Validate()
	var ce *ChannelError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Hip", ce.Path)
	assert.Equal(t, int(PositionY), ce.Channel)
}

func TestClone(t *testing.T) {
	a := &Animation{Version: 1000, Tracks: []Track{{Path: "Hip", Channels: []Channel{
		{ID: PositionX, Keyframes: []Keyframe{{Time: 0, Value: 1}}},
	}}}}
	c, err := a.Clone()
	require.NoError(t, err)
	assert.Equal(t, a, c)

	c.Tracks[0].Channels[0].Keyframes[0].Value = 9
	assert.Equal(t, 1.0, a.Tracks[0].Channels[0].Keyframes[0].Value)
}

func TestLookup(t *testing.T) {
	a, err := DecodeText(strings.NewReader(sampleText), TextOptions{})
	require.NoError(t, err)

	tr, ok := a.Track("Hip/Spine")
	require.True(t, ok)
	ch, ok := tr.Channel(PositionX)
	require.True(t, ok)
	assert.Len(t, ch.Keyframes, 2)
	_, ok = tr.Channel(ScaleZ)
	assert.False(t, ok)
	assert.Equal(t, "ExLocalScaleZ", ScaleZ.String())
}
