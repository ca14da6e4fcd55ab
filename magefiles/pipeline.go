//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Merge dedup-merges the RIS exports in the source directories into merged/works.yaml.
func Merge() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName),
		"merge", "acm_output", "pubmed_output", "scopus_output",
		"--out", "merged/works.yaml")
}

// Screen runs the staged screening pipeline over merged/works.yaml.
func Screen() error {
	mg.Deps(Merge)
	return run(filepath.Join(binDir, binName),
		"screen", "merged/works.yaml",
		"--out-dir", "screened",
		"--db", "screened/archive.db")
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}
