// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// LoadConfig reads a screening criteria file from disk and validates
// it. The file is the YAML form of types.ScreenConfig, so a preset can
// be saved, edited by the reviewer, and loaded back.
func LoadConfig(path string) (types.ScreenConfig, error) {
	var cfg types.ScreenConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading criteria file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing criteria file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("criteria file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes criteria to a YAML file the reviewer can edit.
func SaveConfig(path string, cfg types.ScreenConfig) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling criteria: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
