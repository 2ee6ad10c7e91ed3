// Package anm holds the exported track model handed to the binary writer,
// and the AnmData JSON text format.
package anm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"
)

// DefaultVersion is the file version written by the exporter.
const DefaultVersion = 1000

// ErrInvalidChannel marks a malformed channel: an id outside 0-255 or
// keyframe times that are not strictly increasing.
var ErrInvalidChannel = errors.New("anm: invalid channel")

// Keyframe is one point of a channel. Time is in seconds; tangents are in
// value units per second.
type Keyframe struct {
	Time       float64
	Value      float64
	InTangent  float64
	OutTangent float64
}

// Channel is one scalar curve of a track.
type Channel struct {
	ID        ChannelID
	Keyframes []Keyframe
	// ExplicitTangents is set when the tangents came from the source and must
	// not be recomputed.
	ExplicitTangents bool
}

// Track is the animation of one bone. Path is the slash-joined chain of bone
// names from the root.
type Track struct {
	Path     string
	Channels []Channel
}

// Animation is a complete export.
type Animation struct {
	Version int
	Tracks  []Track
}

// ChannelError describes a malformed channel.
type ChannelError struct {
	Path    string
	Channel int
	Reason  string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("anm: track %q channel %d: %s", e.Path, e.Channel, e.Reason)
}

func (e *ChannelError) Unwrap() error { return ErrInvalidChannel }

// Clone returns a deep copy of a.
func (a *Animation) Clone() (*Animation, error) {
	var out Animation
	if err := deepcopy.Copy(&out, a); err != nil {
		return nil, fmt.Errorf("anm: clone animation: %w", err)
	}
	return &out, nil
}

// KeyframeCount returns the total number of keyframes across all channels.
func (a *Animation) KeyframeCount() int {
	n := 0
	for _, t := range a.Tracks {
		for _, c := range t.Channels {
			n += len(c.Keyframes)
		}
	}
	return n
}

// Track returns the track with the given path.
func (a *Animation) Track(path string) (*Track, bool) {
	for i := range a.Tracks {
		if a.Tracks[i].Path == path {
			return &a.Tracks[i], true
		}
	}
	return nil, false
}

// Channel returns the channel with the given id.
func (t *Track) Channel(id ChannelID) (*Channel, bool) {
	for i := range t.Channels {
		if t.Channels[i].ID == id {
			return &t.Channels[i], true
		}
	}
	return nil, false
}

// Validate checks that no track repeats a channel id and that every channel
// has strictly increasing times.
func (a *Animation) Validate() error {
	for _, t := range a.Tracks {
		seen := make(map[ChannelID]bool, len(t.Channels))
		for _, c := range t.Channels {
			if seen[c.ID] {
				return &ChannelError{Path: t.Path, Channel: int(c.ID), Reason: "channel appears more than once"}
			}
			seen[c.ID] = true
			for i := 1; i < len(c.Keyframes); i++ {
				if c.Keyframes[i].Time <= c.Keyframes[i-1].Time {
					return &ChannelError{
						Path:    t.Path,
						Channel: int(c.ID),
						Reason:  fmt.Sprintf("keyframe %d at %gs does not follow %gs", i, c.Keyframes[i].Time, c.Keyframes[i-1].Time),
					}
				}
			}
		}
	}
	return nil
}

// SortChannels orders the channels of every track by id and drops empty ones.
func (a *Animation) SortChannels() {
	for i := range a.Tracks {
		chs := a.Tracks[i].Channels[:0]
		for _, c := range a.Tracks[i].Channels {
			if len(c.Keyframes) > 0 {
				chs = append(chs, c)
			}
		}
		sort.Slice(chs, func(x, y int) bool { return chs[x].ID < chs[y].ID })
		a.Tracks[i].Channels = chs
	}
}
