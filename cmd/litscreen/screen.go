// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/data-community-of-practice/litscreen/internal/export"
	"github.com/data-community-of-practice/litscreen/internal/ingest"
	"github.com/data-community-of-practice/litscreen/internal/report"
	"github.com/data-community-of-practice/litscreen/internal/screen"
	"github.com/data-community-of-practice/litscreen/internal/store"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen <works-file>",
	Short: "Run the staged screening pipeline over merged works",
	Long: `Screen loads a merged works file, builds the screening pipeline from a
criteria preset or YAML file, and partitions the corpus stage by stage.
Every stage records a decision for each work it excludes; excluded works
never re-enter later stages.

Outputs land in the output directory: included.ris, excluded.ris with
decision notes, and results.csv with one decision-annotated row per work.`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

func runScreen(cmd *cobra.Command, args []string) error {
	criteriaLabel, cfg, err := screenCriteria(cmd)
	if err != nil {
		return err
	}

	// The pipeline constructor validates criteria before any work is read.
	pipeline, err := screen.NewPipeline(&cfg)
	if err != nil {
		return err
	}

	wf, err := ingest.ReadWorksFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Screening %d works through stages: %s\n\n",
		len(wf.Works), strings.Join(pipeline.StageNames(), " -> "))

	result := pipeline.Run(wf.Works)

	outDir, _ := cmd.Flags().GetString("out-dir")
	if err := writeScreenOutputs(outDir, result); err != nil {
		return err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		s, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err := s.SaveRun(context.Background(), criteriaLabel, result)
		if err != nil {
			return err
		}
		fmt.Printf("Archived as run %d in %s\n\n", runID, dbPath)
	}

	rep := report.Build(wf.Works, result)
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return rep.FormatJSON(os.Stdout)
	}
	rep.FormatTable(os.Stdout)
	return nil
}

// screenCriteria resolves the --criteria / --preset flags into a
// validated configuration and a label for the archive.
func screenCriteria(cmd *cobra.Command) (string, types.ScreenConfig, error) {
	criteriaPath, _ := cmd.Flags().GetString("criteria")
	preset, _ := cmd.Flags().GetString("preset")

	if criteriaPath != "" && preset != "" {
		return "", types.ScreenConfig{}, fmt.Errorf("--criteria and --preset are mutually exclusive")
	}
	if criteriaPath != "" {
		cfg, err := screen.LoadConfig(criteriaPath)
		return criteriaPath, cfg, err
	}
	if preset == "" {
		preset = "staged"
	}
	cfg, err := screen.Preset(preset)
	return "preset:" + preset, cfg, err
}

func writeScreenOutputs(outDir string, result screen.RunResult) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var allExcluded []types.Excluded
	for _, sr := range result.Stages {
		allExcluded = append(allExcluded, sr.Excluded...)
	}

	includedPath := filepath.Join(outDir, "included.ris")
	f, err := os.Create(includedPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", includedPath, err)
	}
	if err := ingest.WriteRIS(f, result.Included); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", includedPath, err)
	}
	f.Close()

	excludedPath := filepath.Join(outDir, "excluded.ris")
	f, err = os.Create(excludedPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", excludedPath, err)
	}
	if err := ingest.WriteRISExcluded(f, allExcluded); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", excludedPath, err)
	}
	f.Close()

	csvPath := filepath.Join(outDir, "results.csv")
	f, err = os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	if err := export.WriteCSV(f, result.Included, allExcluded); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}
	f.Close()

	fmt.Printf("Wrote %s (%d works), %s (%d works), %s\n\n",
		includedPath, len(result.Included), excludedPath, len(allExcluded), csvPath)
	return nil
}

func init() {
	screenCmd.Flags().String("criteria", "", "screening criteria YAML file")
	screenCmd.Flags().String("preset", "", "built-in criteria preset: "+strings.Join(screen.Presets(), ", "))
	screenCmd.Flags().String("out-dir", "screened", "directory for included/excluded/CSV outputs")
	screenCmd.Flags().String("db", "", "also archive the run in a SQLite database")
	screenCmd.Flags().Bool("json", false, "print the stage report as JSON")

	rootCmd.AddCommand(screenCmd)
}
