package main

import (
	"fmt"
	"path/filepath"
	"time"

	"anm-exporter/internal/batch"
	"anm-exporter/internal/config"

	"github.com/spf13/cobra"
)

type batchOptions struct {
	output  string
	workers int
}

func newBatchCmd(g *globalOptions) *cobra.Command {
	o := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <inputs...>",
		Short: "Export many inputs concurrently and write manifest.json",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, g, o, args)
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output directory (default: anm-out)")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	return cmd
}

func runBatch(cmd *cobra.Command, g *globalOptions, o *batchOptions, inputs []string) error {
	s, err := g.load(cmd, config.Flags{OutputDir: o.output, Workers: o.workers})
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Inputs: %d, Workers: %d\n", len(inputs), s.cfg.Workers)
	fmt.Fprintf(out, "Output: %s\n", s.cfg.OutputDir)
	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: s.cfg.OutputDir,
		Workers:   s.cfg.Workers,
		Options:   s.opts,
		Source:    s.source,
		Log:       s.log,
	}, inputs)

	manifest := batch.NewManifest(results)
	if err := batch.WriteManifest(filepath.Join(s.cfg.OutputDir, "manifest.json"), results); err != nil {
		return err
	}

	fmt.Fprintf(out, "Done in %.1fs\n", time.Since(start).Seconds())
	fmt.Fprintf(out, "Exported: %d/%d\n", manifest.Total-manifest.Failed, manifest.Total)
	if manifest.Failed > 0 {
		fmt.Fprintf(out, "\nFailed (%d):\n", manifest.Failed)
		for _, r := range results {
			if !r.Success {
				fmt.Fprintf(out, "  %s: %s\n", r.Input, r.Error)
			}
		}
		return fmt.Errorf("%d of %d exports failed", manifest.Failed, manifest.Total)
	}
	return nil
}
