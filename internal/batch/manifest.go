package batch

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Manifest is the summary written next to a batch export.
type Manifest struct {
	Total   int      `json:"total"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// NewManifest summarizes results.
func NewManifest(results []Result) Manifest {
	m := Manifest{Total: len(results), Results: results}
	for _, r := range results {
		if !r.Success {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, results []Result) error {
	data, err := sonic.ConfigStd.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("batch: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := sonic.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parse manifest %s: %w", path, err)
	}
	return m, nil
}
