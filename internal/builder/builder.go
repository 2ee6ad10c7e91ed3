// Package builder runs one animation export: it resolves the hierarchy,
// filters bones, samples and reduces frames, and assembles tracks.
package builder

import (
	"fmt"
	"io"
	"strings"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/bonefilter"
	"anm-exporter/internal/collapse"
	"anm-exporter/internal/host"
	"anm-exporter/internal/logging"
	"anm-exporter/internal/reduce"
	"anm-exporter/internal/sampler"
	"anm-exporter/internal/skeleton"
	"anm-exporter/internal/tangent"

	"github.com/tiendc/go-deepcopy"
)

// Report describes the last build.
type Report struct {
	Bones        []string
	Frames       []float64
	TotalFrames  int
	Keyframes    int
	Notes        []string
	InvalidBones []sampler.InvalidBone
}

// Reduction returns the share of range frames that were not sampled, in percent.
func (r Report) Reduction() float64 {
	if r.TotalFrames == 0 {
		return 0
	}
	return (1 - float64(len(r.Frames))/float64(r.TotalFrames)) * 100
}

// Builder exports animations with a fixed set of options. It is not safe for
// concurrent use; per-build state is reset at the start of every build.
type Builder struct {
	opts   Options
	log    logging.Logger
	report Report
}

// New validates opts and snapshots them.
func New(opts Options, log logging.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var snap Options
	if err := deepcopy.Copy(&snap, &opts); err != nil {
		return nil, fmt.Errorf("builder: copy options: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Builder{opts: snap, log: log}, nil
}

// Options returns the options the builder was created with.
func (b *Builder) Options() Options { return b.opts }

// Report returns what the last build did.
func (b *Builder) Report() Report { return b.report }

// Build exports the current animation of h. It moves the host's frame cursor.
func (b *Builder) Build(h host.Host) (*anm.Animation, error) {
	b.report = Report{}
	if b.opts.Method == MethodText {
		return nil, &ConfigError{Field: "method", Reason: "text exports read AnmData, not a scene"}
	}

	arm := h.Armature()
	skel, err := skeleton.New(arm.Bones)
	if err != nil {
		return nil, fmt.Errorf("builder: read armature: %w", err)
	}
	pm, err := b.resolve(skel, arm.Properties)
	if err != nil {
		return nil, err
	}

	if !h.HasAnimation() {
		if b.opts.Method == MethodDirect && !b.opts.AllFrames {
			return nil, &ConfigError{Field: "method", Reason: "keyframe reduction needs authored animation, but the scene has none; bake instead"}
		}
		if b.opts.Filter.RemoveUnkeyed {
			return nil, &ConfigError{Field: "remove_unkeyed", Reason: "the scene has no authored animation; disable it or bake instead"}
		}
	}

	start, end := h.FrameRange()
	if b.opts.UseRange {
		start, end = b.opts.FrameStart, b.opts.FrameEnd
	}
	if end < start {
		return nil, &ConfigError{Field: "frame_end", Reason: fmt.Sprintf("%d is before start %d", end, start)}
	}
	fps := h.FPS()
	if fps <= 0 {
		return nil, &ConfigError{Field: "fps", Reason: fmt.Sprintf("host reports %g", fps)}
	}

	filtered := bonefilter.Filter(pm, func(name string) bool { return host.IsKeyed(h, name) }, b.opts.Filter)
	b.report.Bones = filtered.Bones
	if len(filtered.Bones) == 0 {
		b.log.Warn("no bones left after filtering")
	}

	frames, err := b.frames(h, filtered.Bones, start, end)
	if err != nil {
		return nil, err
	}
	b.report.Frames = frames
	b.report.TotalFrames = end - start + 1
	if b.opts.Method == MethodDirect {
		b.log.Info(fmt.Sprintf("%d keyframes (vs %d total) - %.1f%% reduction",
			len(frames), b.report.TotalFrames, b.report.Reduction()),
			logging.F("mode", b.modeName()))
	}

	s := sampler.New(h, pm, filtered.Bones, sampler.Options{
		Start:         start,
		FPS:           fps,
		Speed:         b.opts.Speed,
		Scale:         b.opts.Scale,
		FlipThreshold: b.opts.FlipThreshold,
	})
	samples := s.Sample(frames)
	b.report.InvalidBones = sampler.Summarize(s.TakeWarnings())
	for _, ib := range b.report.InvalidBones {
		b.log.Warn(ib.String(), logging.F("bone", ib.Bone), logging.F("frames", ib.Count))
	}

	keep := func(name string) bool { return !filtered.Removed(name) }
	if b.opts.PathIncludeRemoved {
		keep = nil
	}
	timeStep := 1 / fps / b.opts.Speed

	anim := &anm.Animation{Version: b.opts.Version}
	for _, bone := range filtered.Bones {
		track := b.track(pm.Path(bone, keep), samples[bone], timeStep)
		if len(track.Channels) > 0 {
			anim.Tracks = append(anim.Tracks, track)
		}
	}
	anim.SortChannels()
	if err := anim.Validate(); err != nil {
		return nil, fmt.Errorf("builder: assemble: %w", err)
	}
	b.report.Keyframes = anim.KeyframeCount()
	return anim, nil
}

// BuildFromText reads AnmData JSON. Tangents are taken as given.
func (b *Builder) BuildFromText(r io.Reader) (*anm.Animation, error) {
	b.report = Report{}
	anim, err := anm.DecodeText(r, b.opts.Text)
	if err != nil {
		return nil, fmt.Errorf("builder: read text: %w", err)
	}
	anim.Version = b.opts.Version
	for _, t := range anim.Tracks {
		b.report.Bones = append(b.report.Bones, t.Path[strings.LastIndex(t.Path, "/")+1:])
	}
	b.report.Keyframes = anim.KeyframeCount()
	return anim, nil
}

func (b *Builder) resolve(skel *skeleton.Skeleton, props map[string]string) (*skeleton.ParentMap, error) {
	useOverride := false
	switch b.opts.ParentSource {
	case ParentOverride:
		useOverride = true
	case ParentAuto:
		useOverride = skeleton.HasOverride(props)
	}
	pm, notes, err := skeleton.Resolve(skel, skeleton.RecordsFromProperties(props), useOverride)
	if err != nil {
		return nil, fmt.Errorf("builder: resolve hierarchy: %w", err)
	}
	b.report.Notes = notes
	if len(notes) > 0 {
		b.log.Warn(fmt.Sprintf("skipped %d bone override records", len(notes)),
			logging.F("records", strings.Join(notes, "; ")))
	}
	return pm, nil
}

func (b *Builder) modeName() string {
	if b.opts.AllFrames {
		return "all"
	}
	return string(b.opts.Mode)
}

func (b *Builder) frames(h host.Host, bones []string, start, end int) ([]float64, error) {
	if b.opts.Method == MethodBake {
		return sampler.UniformFrames(start, end, b.opts.KeyframeCount), nil
	}
	if b.opts.AllFrames {
		return sampler.UniformFrames(start, end, -1), nil
	}
	r, err := reduce.New(b.opts.Mode, b.opts.Reduce)
	if err != nil {
		return nil, &ConfigError{Field: "mode", Reason: err.Error()}
	}
	in := reduce.Input{Start: start, End: end}
	for _, bone := range bones {
		in.Bones = append(in.Bones, reduce.BoneCurves{
			Bone:   bone,
			Curves: h.Curves(bone),
			Frames: host.KeyframeTimes(h, bone),
		})
	}
	return r.SelectKeyframes(in), nil
}

func (b *Builder) track(path string, samples []sampler.Sample, timeStep float64) anm.Track {
	t := anm.Track{Path: path}
	if len(samples) == 0 {
		return t
	}
	add := func(ids []anm.ChannelID, value func(sampler.Sample) []float64) {
		c := collapse.New(b.opts.Clean)
		for _, s := range samples {
			c.Push(s.Time, value(s))
		}
		keys := c.Finish()
		for axis, id := range ids {
			ch := anm.Channel{ID: id, Keyframes: make([]anm.Keyframe, len(keys))}
			for i, k := range keys {
				ch.Keyframes[i] = anm.Keyframe{Time: k.Time, Value: k.Value[axis]}
			}
			tangent.Synthesize(&ch, timeStep, b.opts.Smooth)
			t.Channels = append(t.Channels, ch)
		}
	}

	if b.opts.Rotation {
		add(anm.RotationChannels[:], func(s sampler.Sample) []float64 {
			q := s.Transform.Rotation
			return q[:]
		})
	}
	if b.opts.Location {
		add(anm.PositionChannels[:], func(s sampler.Sample) []float64 {
			v := s.Transform.Translation
			return v[:]
		})
	}
	if b.opts.ScaleChannels {
		add(anm.ScaleChannels[:], func(s sampler.Sample) []float64 {
			v := s.Transform.Scale
			return v[:]
		})
	}
	return t
}
