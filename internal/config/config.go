package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/bonefilter"
	"anm-exporter/internal/builder"
	"anm-exporter/internal/reduce"
	"anm-exporter/internal/sampler"

	"github.com/bytedance/sonic"
)

// Config holds export options, batch settings and BMD key material.
// Pointer fields distinguish "unset" from an explicit zero or false.
type Config struct {
	// Export method
	Method        string `json:"method"`
	Mode          string `json:"mode"`
	AllFrames     bool   `json:"all_frames"`
	KeyframeCount int    `json:"keyframe_count"`
	FrameStart    *int   `json:"frame_start"`
	FrameEnd      *int   `json:"frame_end"`

	// Reduction
	Step             int      `json:"step"`
	DensityThreshold float64  `json:"density_threshold"`
	DenseReduction   int      `json:"dense_reduction"`
	MotionThreshold  *float64 `json:"motion_threshold"`
	MaxGap           float64  `json:"max_gap"`
	RDPTolerance     *float64 `json:"rdp_tolerance"`
	RDPMinDistance   int      `json:"rdp_min_distance"`

	// Conversion
	Scale         float64 `json:"scale"`
	Speed         float64 `json:"speed"`
	FlipThreshold float64 `json:"flip_threshold"`
	Version       int     `json:"version"`

	// Hierarchy and filtering
	ParentSource         string   `json:"parent_source"`
	PathIncludeRemoved   bool     `json:"path_include_removed"`
	RemoveUnkeyed        bool     `json:"remove_unkeyed"`
	RemoveOrphans        *bool    `json:"remove_orphans"`
	RemoveIK             *bool    `json:"remove_ik"`
	RemoveSerialNumbered *bool    `json:"remove_serial_numbered"`
	RemoveJapanese       *bool    `json:"remove_japanese"`
	IKMarkers            []string `json:"ik_markers"`
	NubMarkers           []string `json:"nub_markers"`
	NubSuffix            string   `json:"nub_suffix"`

	// Channels
	Location      *bool `json:"location"`
	Rotation      *bool `json:"rotation"`
	ScaleChannels bool  `json:"scale_channels"`
	Clean         *bool `json:"clean"`
	Smooth        *bool `json:"smooth"`
	ShiftJIS      bool  `json:"shift_jis"`

	// Batch and logging
	OutputDir string `json:"output_dir"`
	Workers   int    `json:"workers"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	LogFile   string `json:"log_file"`

	// BMD input
	BMDAction int    `json:"bmd_action"`
	BMDXORKey string `json:"bmd_xor_key"`
	BMDLEAKey string `json:"bmd_lea_key"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Method    string
	Mode      string
	OutputDir string
	Workers   int
	Scale     float64
	Speed     float64
	AllFrames bool
	LogLevel  string
	LogFormat string
	LogFile   string
	Action    int
}

// Resolve applies CLI overrides and fills every unset field with its
// default. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Method != "" {
		c.Method = flags.Method
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Speed > 0 {
		c.Speed = flags.Speed
	}
	if flags.AllFrames {
		c.AllFrames = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.LogFormat = flags.LogFormat
	}
	if flags.LogFile != "" {
		c.LogFile = flags.LogFile
	}
	if flags.Action > 0 {
		c.BMDAction = flags.Action
	}

	def := builder.DefaultOptions()
	if c.Method == "" {
		c.Method = string(def.Method)
	}
	if c.Mode == "" {
		c.Mode = string(def.Mode)
	}
	if c.KeyframeCount == 0 {
		c.KeyframeCount = def.KeyframeCount
	}
	if c.Step <= 0 {
		c.Step = def.Reduce.Step
	}
	if c.DensityThreshold <= 0 {
		c.DensityThreshold = def.Reduce.DensityThreshold
	}
	if c.DenseReduction <= 0 {
		c.DenseReduction = def.Reduce.DenseReduction
	}
	if c.MotionThreshold == nil {
		c.MotionThreshold = ptr(def.Reduce.MotionThreshold)
	}
	if c.MaxGap <= 0 {
		c.MaxGap = def.Reduce.MaxGap
	}
	if c.RDPTolerance == nil {
		c.RDPTolerance = ptr(def.Reduce.RDPTolerance)
	}
	if c.RDPMinDistance <= 0 {
		c.RDPMinDistance = def.Reduce.RDPMinDistance
	}
	if c.Scale <= 0 {
		c.Scale = def.Scale
	}
	if c.Speed <= 0 {
		c.Speed = def.Speed
	}
	if c.FlipThreshold <= 0 {
		c.FlipThreshold = sampler.DefaultFlipThreshold
	}
	if c.Version <= 0 {
		c.Version = anm.DefaultVersion
	}
	if c.ParentSource == "" {
		c.ParentSource = string(def.ParentSource)
	}

	f := bonefilter.DefaultOptions()
	setDefault(&c.RemoveOrphans, f.RemoveOrphans)
	setDefault(&c.RemoveIK, f.RemoveIK)
	setDefault(&c.RemoveSerialNumbered, f.RemoveSerialNumbered)
	setDefault(&c.RemoveJapanese, f.RemoveJapanese)
	if len(c.IKMarkers) == 0 {
		c.IKMarkers = f.IKMarkers
	}
	if len(c.NubMarkers) == 0 {
		c.NubMarkers = f.NubMarkers
	}
	if c.NubSuffix == "" {
		c.NubSuffix = f.NubSuffix
	}

	setDefault(&c.Location, def.Location)
	setDefault(&c.Rotation, def.Rotation)
	setDefault(&c.Clean, def.Clean)
	setDefault(&c.Smooth, def.Smooth)

	if c.OutputDir == "" {
		c.OutputDir = "anm-out"
	}
	if !filepath.IsAbs(c.OutputDir) {
		if abs, err := filepath.Abs(c.OutputDir); err == nil {
			c.OutputDir = abs
		}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// BuilderOptions maps a resolved config onto builder options.
func (c *Config) BuilderOptions() builder.Options {
	o := builder.Options{
		Method: builder.Method(c.Method),
		Mode:   reduce.Mode(c.Mode),
		Reduce: reduce.Params{
			Step:             c.Step,
			DensityThreshold: c.DensityThreshold,
			DenseReduction:   c.DenseReduction,
			MotionThreshold:  deref(c.MotionThreshold),
			MaxGap:           c.MaxGap,
			RDPTolerance:     deref(c.RDPTolerance),
			RDPMinDistance:   c.RDPMinDistance,
		},
		AllFrames:          c.AllFrames,
		KeyframeCount:      c.KeyframeCount,
		Scale:              c.Scale,
		Speed:              c.Speed,
		FlipThreshold:      c.FlipThreshold,
		Version:            c.Version,
		ParentSource:       builder.ParentSource(c.ParentSource),
		PathIncludeRemoved: c.PathIncludeRemoved,
		Filter: bonefilter.Options{
			RemoveUnkeyed:        c.RemoveUnkeyed,
			RemoveOrphans:        deref(c.RemoveOrphans),
			RemoveIK:             deref(c.RemoveIK),
			RemoveSerialNumbered: deref(c.RemoveSerialNumbered),
			RemoveJapanese:       deref(c.RemoveJapanese),
			IKMarkers:            c.IKMarkers,
			NubMarkers:           c.NubMarkers,
			NubSuffix:            c.NubSuffix,
		},
		Location:      deref(c.Location),
		Rotation:      deref(c.Rotation),
		ScaleChannels: c.ScaleChannels,
		Clean:         deref(c.Clean),
		Smooth:        deref(c.Smooth),
		Text:          anm.TextOptions{ShiftJIS: c.ShiftJIS},
	}
	if c.FrameStart != nil || c.FrameEnd != nil {
		o.UseRange = true
		o.FrameStart, o.FrameEnd = deref(c.FrameStart), deref(c.FrameEnd)
	}
	return o
}

// BMDKeys decodes the hex key material. Empty keys decode to nil.
func (c *Config) BMDKeys() (xorKey, leaKey []byte, err error) {
	if xorKey, err = hex.DecodeString(c.BMDXORKey); err != nil {
		return nil, nil, fmt.Errorf("config: bmd_xor_key: %w", err)
	}
	if leaKey, err = hex.DecodeString(c.BMDLEAKey); err != nil {
		return nil, nil, fmt.Errorf("config: bmd_lea_key: %w", err)
	}
	if len(leaKey) != 0 && len(leaKey) != 32 {
		return nil, nil, fmt.Errorf("config: bmd_lea_key: want 32 bytes, got %d", len(leaKey))
	}
	if len(xorKey) == 0 {
		xorKey = nil
	}
	if len(leaKey) == 0 {
		leaKey = nil
	}
	return xorKey, leaKey, nil
}

func ptr[T any](v T) *T { return &v }

func setDefault(p **bool, v bool) {
	if *p == nil {
		*p = ptr(v)
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
