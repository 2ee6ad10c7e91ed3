package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/bmd"
	"anm-exporter/internal/config"
	"anm-exporter/internal/host"
	"anm-exporter/internal/report"
	"anm-exporter/internal/scene"

	"github.com/spf13/cobra"
)

func newInspectCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input>",
		Short: "Describe a scene, BMD model or AnmData file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd, config.Flags{})
			if err != nil {
				return err
			}
			defer s.close()
			return runInspect(cmd.OutOrStdout(), s, args[0])
		},
	}
}

func runInspect(w io.Writer, s *session, input string) error {
	if strings.EqualFold(filepath.Ext(input), ".bmd") {
		m, err := bmd.Parse(input, s.source.Keys)
		if err != nil {
			return err
		}
		inspectModel(w, m)
		return nil
	}

	sc, sceneErr := scene.Load(input)
	if sceneErr == nil {
		inspectHost(w, sc)
		return nil
	}

	// Not a scene; try AnmData.
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	a, err := anm.DecodeText(f, s.opts.Text)
	if err != nil {
		return fmt.Errorf("%s is neither a scene (%v) nor AnmData (%w)", input, sceneErr, err)
	}
	return report.Write(w, a, nil, outputWidth(w))
}

func inspectModel(w io.Writer, m *bmd.Model) {
	fmt.Fprintf(w, "Model:   %s (BMD v%d)\n", m.Name, m.Version)
	fmt.Fprintf(w, "Meshes:  %d\n", m.Meshes)
	fmt.Fprintf(w, "Actions: %d\n", len(m.Actions))
	for i, a := range m.Actions {
		lock := ""
		if a.LockPositions {
			lock = " (locked positions)"
		}
		fmt.Fprintf(w, "  [%d] %d keys%s\n", i, a.Keys, lock)
	}
	fmt.Fprintf(w, "Bones:   %d\n", len(m.Bones))
	for i, b := range m.Bones {
		if b.IsDummy {
			fmt.Fprintf(w, "  [%d] (dummy)\n", i)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s parent=%d\n", i, b.Name, b.Parent)
	}
}

func inspectHost(w io.Writer, h host.Host) {
	start, end := h.FrameRange()
	arm := h.Armature()
	keyed := 0
	for _, b := range arm.Bones {
		if host.IsKeyed(h, b.Name) {
			keyed++
		}
	}
	fmt.Fprintf(w, "FPS:    %g\n", h.FPS())
	fmt.Fprintf(w, "Frames: %d - %d\n", start, end)
	fmt.Fprintf(w, "Bones:  %d (%d keyed)\n", len(arm.Bones), keyed)
	for _, b := range arm.Bones {
		parent := b.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "  %s <- %s\n", b.Name, parent)
	}
	if len(arm.Properties) > 0 {
		fmt.Fprintf(w, "Properties: %d\n", len(arm.Properties))
	}
}
