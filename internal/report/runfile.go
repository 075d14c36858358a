// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// SaveRun writes the run envelope as a YAML file (R3.1). Parent directories
// are created as needed.
func SaveRun(run *types.SearchRun, path string) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshalling run: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating run directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run file: %w", err)
	}
	return nil
}

// LoadRun reads a run envelope previously written by SaveRun (R3.2).
func LoadRun(path string) (*types.SearchRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var run types.SearchRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return &run, nil
}
