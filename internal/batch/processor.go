// Package batch exports many inputs concurrently and records the outcome in a
// manifest.
package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"anm-exporter/internal/builder"
	"anm-exporter/internal/logging"
)

// Config holds the shared settings for a batch run.
type Config struct {
	OutputDir string
	Workers   int
	Options   builder.Options
	Source    Source
	Log       logging.Logger
	// Progress is the interval between progress lines; zero means 2s.
	Progress time.Duration
}

// Result holds the outcome of exporting one input.
type Result struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Tracks       int    `json:"tracks"`
	Keyframes    int    `json:"keyframes"`
	Frames       int    `json:"frames"`
	InvalidBones int    `json:"invalid_bones,omitempty"`
}

// Run exports all inputs using a worker pool. Results keep input order.
func Run(cfg Config, inputs []string) []Result {
	total := len(inputs)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Infof("[%d/%d] %.1f inputs/sec", p, total, rate)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				in := inputs[idx]
				results[idx], _ = Export(cfg.Options, cfg.Source, log, in, OutputPath(cfg.OutputDir, in))
				if !results[idx].Success {
					log.Error("export failed", logging.F("input", in), logging.F("error", results[idx].Error))
				}
				processed.Add(1)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	log.Info("batch finished", logging.F("ok", ok), logging.F("failed", total-ok),
		logging.F("elapsed", time.Since(start).Round(time.Millisecond).String()))
	return results
}
