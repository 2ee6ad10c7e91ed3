package main

import (
	"io"
	"os"

	"anm-exporter/internal/batch"
	"anm-exporter/internal/bmd"
	"anm-exporter/internal/builder"
	"anm-exporter/internal/config"
	"anm-exporter/internal/logging"
	"anm-exporter/internal/report"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	method    string
	mode      string
	scale     float64
	speed     float64
	allFrames bool
	action    int
	fps       float64
}

// session is the resolved state a subcommand runs with.
type session struct {
	cfg    config.Config
	opts   builder.Options
	source batch.Source
	log    logging.Logger
	core   *logging.Core
}

// close flushes and releases log outputs.
func (s *session) close() {
	_ = s.core.Close()
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "anmexport",
		Short: "Export skeletal animation to CM3D2 .anm tracks",
		Long: `anmexport samples a skeletal animation, converts every bone into the
engine's coordinate space, reduces the keyframes and writes AnmData JSON.

Inputs are JSON scene files, MU Online .bmd models (pick the clip with
--action) or AnmData JSON when --method text is used.

Examples:
  anmexport build walk.json -o walk.anm.json
  anmexport build walk.json --method bake --watch
  anmexport batch clips/*.json --output out --workers 4
  anmexport plot walk.anm.json --bone Bip01 -o bip01.webp
  anmexport inspect player.bmd`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Path to a JSON config file")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format (text, json)")
	pf.StringVar(&g.logFile, "log-file", "", "Also append logs to this file")
	pf.StringVar(&g.method, "method", "", "Export method (bake, direct, text)")
	pf.StringVar(&g.mode, "mode", "", "Keyframe reduction mode (simple, density, motion, rdp)")
	pf.Float64Var(&g.scale, "scale", 0, "Translation scale (default 0.2)")
	pf.Float64Var(&g.speed, "speed", 0, "Playback speed multiplier (default 1.0)")
	pf.BoolVar(&g.allFrames, "all-frames", false, "Sample every frame instead of reducing")
	pf.IntVar(&g.action, "action", 0, "BMD action index to export")
	pf.Float64Var(&g.fps, "fps", 0, "BMD playback rate (default 30)")

	root.AddCommand(
		newBuildCmd(g),
		newBatchCmd(g),
		newPlotCmd(g),
		newInspectCmd(g),
	)
	return root
}

// load resolves config file, flags and defaults into a session. Logs go to
// stderr so that stdout stays clean for reports.
func (g *globalOptions) load(cmd *cobra.Command, flags config.Flags) (*session, error) {
	var cfg config.Config
	if g.configFile != "" {
		var err error
		if cfg, err = config.Load(g.configFile); err != nil {
			return nil, err
		}
	}

	flags.Method = g.method
	flags.Mode = g.mode
	flags.Scale = g.scale
	flags.Speed = g.speed
	flags.AllFrames = g.allFrames
	flags.LogLevel = g.logLevel
	flags.LogFormat = g.logFormat
	flags.LogFile = g.logFile
	flags.Action = g.action
	cfg.Resolve(flags)

	opts := cfg.BuilderOptions()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	xorKey, leaKey, err := cfg.BMDKeys()
	if err != nil {
		return nil, err
	}

	core := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat), cmd.ErrOrStderr())
	if cfg.LogFile != "" {
		out, err := logging.NewFileOutput(cfg.LogFile, logging.Format(cfg.LogFormat))
		if err != nil {
			return nil, err
		}
		core.AddOutput(out)
	}

	return &session{
		cfg:  cfg,
		opts: opts,
		source: batch.Source{
			Keys:   bmd.Keys{XOR: xorKey, LEA: leaKey},
			Action: cfg.BMDAction,
			FPS:    g.fps,
		},
		log:  core,
		core: core,
	}, nil
}

// outputWidth sizes tables to the terminal when writing to one.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return report.TerminalWidth(f)
	}
	return 0
}
