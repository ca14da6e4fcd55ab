// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/data-community-of-practice/litscreen/internal/dedup"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// WorksFile is the on-disk form of a merge pass: the deduplicated
// works with their provenance, plus the statistics of the pass. The
// screen command consumes this file, so merging and screening can run
// separately without re-reading the harvest directories.
type WorksFile struct {
	Timestamp time.Time          `yaml:"timestamp"`
	Stats     dedup.Stats        `yaml:"stats"`
	Works     []types.UniqueWork `yaml:"works"`
}

// WriteWorksFile saves merged works to a YAML file.
func WriteWorksFile(path string, works []types.UniqueWork, stats dedup.Stats) error {
	wf := WorksFile{
		Timestamp: time.Now(),
		Stats:     stats,
		Works:     works,
	}
	data, err := yaml.Marshal(&wf)
	if err != nil {
		return fmt.Errorf("marshaling works file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadWorksFile loads a previously merged works file from disk.
func ReadWorksFile(path string) (*WorksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading works file: %w", err)
	}
	var wf WorksFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing works file: %w", err)
	}
	return &wf, nil
}
