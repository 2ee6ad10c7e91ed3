package anm

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// AnmData text format:
//
//	{"Bip01": {"path": "Bip01", "channels": {"100": [{"frame": 0, "f0": 0, "f1": 0, "f2": 0}]}}}
//
// frame is the time in seconds, f0 the value, f1 and f2 the in and out
// tangents.
type textTrack struct {
	Path     string               `json:"path"`
	Channels map[string][]textKey `json:"channels"`
}

type textKey struct {
	Frame float64 `json:"frame"`
	F0    float64 `json:"f0"`
	F1    float64 `json:"f1"`
	F2    float64 `json:"f2"`
}

// TextOptions controls the text codec.
type TextOptions struct {
	// ShiftJIS reads and writes Shift-JIS instead of UTF-8.
	ShiftJIS bool
}

// DecodeText parses AnmData JSON. Tracks are ordered by path, channels by id.
// Channels keep their tangents and are marked explicit.
func DecodeText(r io.Reader, opts TextOptions) (*Animation, error) {
	if opts.ShiftJIS {
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("anm: read text: %w", err)
	}

	var doc map[string]textTrack
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("anm: parse text: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := trackPath(names[i], doc[names[i]]), trackPath(names[j], doc[names[j]])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})

	anim := &Animation{Version: DefaultVersion}
	for _, name := range names {
		tt := doc[name]
		track := Track{Path: trackPath(name, tt)}
		for key, keys := range tt.Channels {
			id, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				id = -1
			}
			if id < 0 || id > 255 {
				return nil, &ChannelError{Path: track.Path, Channel: id, Reason: fmt.Sprintf("channel id %q out of range 0-255", key)}
			}
			ch := Channel{ID: ChannelID(id), ExplicitTangents: true}
			for _, k := range keys {
				ch.Keyframes = append(ch.Keyframes, Keyframe{Time: k.Frame, Value: k.F0, InTangent: k.F1, OutTangent: k.F2})
			}
			track.Channels = append(track.Channels, ch)
		}
		anim.Tracks = append(anim.Tracks, track)
	}
	anim.SortChannels()
	if err := anim.Validate(); err != nil {
		return nil, err
	}
	return anim, nil
}

func trackPath(name string, tt textTrack) string {
	if tt.Path == "" {
		return name
	}
	return tt.Path
}

// EncodeText writes a as AnmData JSON with sorted keys. Tracks are keyed by
// their bone name, or by their full path when two bones share a name.
func EncodeText(w io.Writer, a *Animation, opts TextOptions) error {
	doc := make(map[string]textTrack, len(a.Tracks))
	for _, t := range a.Tracks {
		key := t.Path[strings.LastIndex(t.Path, "/")+1:]
		if _, dup := doc[key]; dup {
			key = t.Path
		}
		tt := textTrack{Path: t.Path, Channels: make(map[string][]textKey, len(t.Channels))}
		for _, c := range t.Channels {
			keys := make([]textKey, len(c.Keyframes))
			for i, k := range c.Keyframes {
				keys[i] = textKey{Frame: k.Time, F0: k.Value, F1: k.InTangent, F2: k.OutTangent}
			}
			tt.Channels[strconv.Itoa(int(c.ID))] = keys
		}
		doc[key] = tt
	}

	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("anm: encode text: %w", err)
	}
	data = append(data, '\n')
	if !opts.ShiftJIS {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("anm: write text: %w", err)
		}
		return nil
	}
	tw := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("anm: write text: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("anm: write text: %w", err)
	}
	return nil
}
