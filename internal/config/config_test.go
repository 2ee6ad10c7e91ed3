package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"anm-exporter/internal/builder"
	"anm-exporter/internal/reduce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anm.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{})

	assert.Equal(t, "direct", c.Method)
	assert.Equal(t, "density", c.Mode)
	assert.Equal(t, 2, c.Step)
	assert.Equal(t, 0.8, c.DensityThreshold)
	assert.Equal(t, 0.001, *c.MotionThreshold)
	assert.Equal(t, 0.01, *c.RDPTolerance)
	assert.Equal(t, 0.2, c.Scale)
	assert.Equal(t, 1.0, c.Speed)
	assert.Equal(t, 5.0, c.FlipThreshold)
	assert.Equal(t, 1000, c.Version)
	assert.Equal(t, -1, c.KeyframeCount)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
	assert.True(t, filepath.IsAbs(c.OutputDir))
	assert.Equal(t, "info", c.LogLevel)

	opts := c.BuilderOptions()
	require.NoError(t, opts.Validate())
	def := builder.DefaultOptions()
	assert.Equal(t, def.Reduce, opts.Reduce)
	assert.Equal(t, def.Filter, opts.Filter)
	assert.True(t, opts.Location)
	assert.True(t, opts.Rotation)
	assert.True(t, opts.Clean)
	assert.True(t, opts.Smooth)
	assert.False(t, opts.UseRange)
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	path := writeConfig(t, `{
		"method": "bake",
		"mode": "rdp",
		"rdp_tolerance": 0,
		"location": false,
		"remove_japanese": false,
		"frame_start": 0,
		"frame_end": 40,
		"shift_jis": true
	}`)
	c, err := Load(path)
	require.NoError(t, err)
	c.Resolve(Flags{})

	opts := c.BuilderOptions()
	assert.Equal(t, builder.MethodBake, opts.Method)
	assert.Equal(t, reduce.ModeRDP, opts.Mode)
	assert.Zero(t, opts.Reduce.RDPTolerance)
	assert.False(t, opts.Location)
	assert.False(t, opts.Filter.RemoveJapanese)
	assert.True(t, opts.Filter.RemoveIK)
	assert.True(t, opts.UseRange)
	assert.Equal(t, 0, opts.FrameStart)
	assert.Equal(t, 40, opts.FrameEnd)
	assert.True(t, opts.Text.ShiftJIS)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `{"method": "bake", "scale": 0.5, "workers": 2}`)
	c, err := Load(path)
	require.NoError(t, err)

	c.Resolve(Flags{Method: "direct", Workers: 8, OutputDir: "/tmp/out"})
	assert.Equal(t, "direct", c.Method)
	assert.Equal(t, 0.5, c.Scale)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, "/tmp/out", c.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, `{"method": `))
	assert.ErrorContains(t, err, "config: parse")
}

func TestBMDKeys(t *testing.T) {
	c := Config{BMDXORKey: "fc cf"}
	_, _, err := c.BMDKeys()
	assert.Error(t, err)

	c = Config{BMDXORKey: "fccfab", BMDLEAKey: "00"}
	_, _, err = c.BMDKeys()
	assert.ErrorContains(t, err, "want 32 bytes")

	c = Config{BMDXORKey: "fccfab"}
	xor, lea, err := c.BMDKeys()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfc, 0xcf, 0xab}, xor)
	assert.Nil(t, lea)
}
