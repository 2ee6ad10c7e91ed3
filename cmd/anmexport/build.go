package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/batch"
	"anm-exporter/internal/config"
	"anm-exporter/internal/logging"
	"anm-exporter/internal/preview"
	"anm-exporter/internal/report"
	"anm-exporter/internal/watch"

	"github.com/spf13/cobra"
)

type buildOptions struct {
	output string
	watch  bool
	plot   string
	bone   string
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	o := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build <input>",
		Short: "Export one scene, BMD model or AnmData file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, g, o, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file (default: <input>.anm.json next to the input)")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Rebuild whenever the input changes")
	cmd.Flags().StringVar(&o.plot, "plot", "", "Also render a curve plot (.webp or .tga)")
	cmd.Flags().StringVar(&o.bone, "bone", "", "Bone to plot (default: first track)")
	return cmd
}

func runBuild(cmd *cobra.Command, g *globalOptions, o *buildOptions, input string) error {
	s, err := g.load(cmd, config.Flags{})
	if err != nil {
		return err
	}
	defer s.close()
	output := o.output
	if output == "" {
		output = batch.OutputPath(filepath.Dir(input), input)
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return fmt.Errorf("output %s would overwrite the input", output)
	}

	once := func() error {
		res, a := batch.Export(s.opts, s.source, s.log, input, output)
		if !res.Success {
			return errors.New(res.Error)
		}
		s.log.Info("exported", logging.F("output", output), logging.F("tracks", res.Tracks), logging.F("keyframes", res.Keyframes))
		if err := report.Write(cmd.OutOrStdout(), a, nil, outputWidth(cmd.OutOrStdout())); err != nil {
			return err
		}
		if o.plot != "" {
			return plotTrack(a, o.bone, o.plot, preview.DefaultOptions())
		}
		return nil
	}

	if err := once(); err != nil && !o.watch {
		return err
	} else if err != nil {
		s.log.Error("initial build failed", logging.F("error", err.Error()))
	}
	if !o.watch {
		return nil
	}

	w, err := watch.New(input, 0, s.log)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	s.log.Info("watching for changes", logging.F("input", input))
	if err := w.Run(ctx, once); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// findTrack matches bone against full paths first, then against the last
// path element.
func findTrack(a *anm.Animation, bone string) (anm.Track, error) {
	if len(a.Tracks) == 0 {
		return anm.Track{}, errors.New("animation has no tracks")
	}
	if bone == "" {
		return a.Tracks[0], nil
	}
	if t, ok := a.Track(bone); ok {
		return *t, nil
	}
	for _, t := range a.Tracks {
		if t.Path[strings.LastIndex(t.Path, "/")+1:] == bone {
			return t, nil
		}
	}
	return anm.Track{}, fmt.Errorf("no track for bone %q", bone)
}

func plotTrack(a *anm.Animation, bone, path string, opts preview.Options) error {
	t, err := findTrack(a, bone)
	if err != nil {
		return err
	}
	img, err := preview.Plot(t, opts)
	if err != nil {
		return err
	}
	return preview.WriteFile(path, img)
}
