package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/bmd"
	"anm-exporter/internal/builder"
	"anm-exporter/internal/host"
	"anm-exporter/internal/logging"
	"anm-exporter/internal/scene"
)

// OutputSuffix is appended to the input's base name to form the output file.
const OutputSuffix = ".anm.json"

// Source selects how inputs are opened.
type Source struct {
	Keys   bmd.Keys
	Action int
	// FPS overrides the BMD playback rate; scene files carry their own.
	FPS float64
}

// Open loads a scene (.json) or BMD model (.bmd) as a host.
func Open(path string, src Source) (host.Host, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmd":
		m, err := bmd.Parse(path, src.Keys)
		if err != nil {
			return nil, err
		}
		c, err := m.Clip(src.Action, src.FPS)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ".json":
		s, err := scene.Load(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("batch: unsupported input %s", path)
	}
}

// OutputPath places the export for input inside dir.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+OutputSuffix)
}

// Export builds one input and writes its AnmData to output. The animation is
// returned alongside the result so callers can render or summarize it.
func Export(opts builder.Options, src Source, log logging.Logger, input, output string) (Result, *anm.Animation) {
	res := Result{Input: input, Output: output}
	fail := func(err error) (Result, *anm.Animation) {
		res.Error = err.Error()
		return res, nil
	}

	b, err := builder.New(opts, log.With(logging.F("input", filepath.Base(input))))
	if err != nil {
		return fail(err)
	}

	var a *anm.Animation
	if opts.Method == builder.MethodText {
		f, err := os.Open(input)
		if err != nil {
			return fail(fmt.Errorf("batch: open %s: %w", input, err))
		}
		a, err = b.BuildFromText(f)
		f.Close()
		if err != nil {
			return fail(err)
		}
	} else {
		h, err := Open(input, src)
		if err != nil {
			return fail(err)
		}
		if a, err = b.Build(h); err != nil {
			return fail(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fail(err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fail(err)
	}
	err = anm.EncodeText(f, a, opts.Text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(fmt.Errorf("batch: write %s: %w", output, err))
	}

	rep := b.Report()
	res.Success = true
	res.Tracks = len(a.Tracks)
	res.Keyframes = rep.Keyframes
	res.Frames = len(rep.Frames)
	res.InvalidBones = len(rep.InvalidBones)
	return res, a
}
