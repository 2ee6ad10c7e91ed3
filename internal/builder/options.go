package builder

import (
	"errors"
	"fmt"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/bonefilter"
	"anm-exporter/internal/reduce"
	"anm-exporter/internal/sampler"
)

// ErrConfiguration marks an export that cannot run with the given options
// and input.
var ErrConfiguration = errors.New("builder: configuration error")

// ConfigError names the offending option.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("builder: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// Method selects how frames are gathered.
type Method string

const (
	// MethodBake samples KeyframeCount frames spread over the range.
	MethodBake Method = "bake"
	// MethodDirect samples every frame, or the frames chosen by a reducer.
	MethodDirect Method = "direct"
	// MethodText reads tracks from AnmData JSON.
	MethodText Method = "text"
)

// ParentSource selects where bone parents come from.
type ParentSource string

const (
	ParentNative   ParentSource = "native"
	ParentOverride ParentSource = "override"
	// ParentAuto uses the override when the armature carries BoneData records.
	ParentAuto ParentSource = "auto"
)

// Options configures one export.
type Options struct {
	Method Method
	Mode   reduce.Mode
	Reduce reduce.Params

	// AllFrames makes MethodDirect sample every frame instead of reducing.
	AllFrames bool
	// KeyframeCount is the number of MethodBake samples; -1 means every frame.
	KeyframeCount int

	// UseRange overrides the host frame range with FrameStart..FrameEnd.
	UseRange   bool
	FrameStart int
	FrameEnd   int

	Scale         float64
	Speed         float64
	FlipThreshold float64
	Version       int

	ParentSource ParentSource
	// PathIncludeRemoved keeps filtered-out ancestors in track paths.
	PathIncludeRemoved bool
	Filter             bonefilter.Options

	Location      bool
	Rotation      bool
	ScaleChannels bool

	// Clean collapses constant-slope runs of sampled channels.
	Clean bool
	// Smooth computes tangents for sampled channels.
	Smooth bool

	Text anm.TextOptions
}

// DefaultOptions returns the exporter defaults.
func DefaultOptions() Options {
	return Options{
		Method:        MethodDirect,
		Mode:          reduce.ModeDensity,
		Reduce:        reduce.DefaultParams(),
		KeyframeCount: -1,
		Scale:         0.2,
		Speed:         1,
		FlipThreshold: sampler.DefaultFlipThreshold,
		Version:       anm.DefaultVersion,
		ParentSource:  ParentAuto,
		Filter:        bonefilter.DefaultOptions(),
		Location:      true,
		Rotation:      true,
		Clean:         true,
		Smooth:        true,
	}
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	switch o.Method {
	case MethodBake, MethodDirect, MethodText:
	default:
		return &ConfigError{Field: "method", Reason: fmt.Sprintf("unknown method %q", o.Method)}
	}
	switch o.ParentSource {
	case ParentNative, ParentOverride, ParentAuto:
	default:
		return &ConfigError{Field: "parent_source", Reason: fmt.Sprintf("unknown source %q", o.ParentSource)}
	}
	if _, err := reduce.New(o.Mode, o.Reduce); err != nil {
		return &ConfigError{Field: "mode", Reason: err.Error()}
	}

	p := o.Reduce
	switch {
	case p.Step < 2:
		return &ConfigError{Field: "step", Reason: "must be at least 2"}
	case p.DensityThreshold <= 0 || p.DensityThreshold > 1:
		return &ConfigError{Field: "density_threshold", Reason: "must be in (0, 1]"}
	case p.DenseReduction < 2:
		return &ConfigError{Field: "dense_reduction", Reason: "must be at least 2"}
	case p.MotionThreshold < 0:
		return &ConfigError{Field: "motion_threshold", Reason: "must not be negative"}
	case p.MaxGap < 1:
		return &ConfigError{Field: "max_gap", Reason: "must be at least 1"}
	case p.RDPTolerance < 0:
		return &ConfigError{Field: "rdp_tolerance", Reason: "must not be negative"}
	case p.RDPMinDistance < 1:
		return &ConfigError{Field: "rdp_min_distance", Reason: "must be at least 1"}
	}

	switch {
	case o.KeyframeCount == 0 || o.KeyframeCount < -1:
		return &ConfigError{Field: "keyframe_count", Reason: "must be -1 or positive"}
	case o.Scale <= 0:
		return &ConfigError{Field: "scale", Reason: "must be positive"}
	case o.Speed <= 0:
		return &ConfigError{Field: "speed", Reason: "must be positive"}
	case o.FlipThreshold <= 0:
		return &ConfigError{Field: "flip_threshold", Reason: "must be positive"}
	case o.UseRange && o.FrameEnd < o.FrameStart:
		return &ConfigError{Field: "frame_end", Reason: fmt.Sprintf("%d is before start %d", o.FrameEnd, o.FrameStart)}
	}
	return nil
}
