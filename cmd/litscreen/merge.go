// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/data-community-of-practice/litscreen/internal/dedup"
	"github.com/data-community-of-practice/litscreen/internal/ingest"
	"github.com/data-community-of-practice/litscreen/internal/report"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source-dir>...",
	Short: "Merge RIS exports from multiple sources and deduplicate by DOI",
	Long: `Merge reads every .ris file under the given harvest directories
(acm_output, pubmed_output, scopus_output), stamps each record with its
source and search keyphrase, and collapses duplicates that share a
normalized DOI. The first-seen record becomes the canonical one; records
without a DOI are never merged.

Directory argument order matters: it fixes which duplicate is canonical.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	risPath, _ := cmd.Flags().GetString("ris")
	if outPath == "" {
		outPath = viper.GetString("merge.out")
	}
	if outPath == "" {
		outPath = "merged_works.yaml"
	}

	records, err := ingest.ReadDirs(args, os.Stdout)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found under %v", args)
	}
	if err := dedup.ValidateRecords(records); err != nil {
		return err
	}

	works := dedup.Merge(records)
	stats := dedup.Summarize(records, works)

	if err := ingest.WriteWorksFile(outPath, works, stats); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d unique works to %s\n\n", len(works), outPath)

	if risPath != "" {
		f, err := os.Create(risPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", risPath, err)
		}
		defer f.Close()
		if err := ingest.WriteRIS(f, works); err != nil {
			return fmt.Errorf("writing %s: %w", risPath, err)
		}
		fmt.Printf("Wrote merged RIS to %s\n\n", risPath)
	}

	report.FormatMergeStats(stats, os.Stdout)
	return nil
}

func init() {
	mergeCmd.Flags().String("out", "", "output works file (default merged_works.yaml)")
	mergeCmd.Flags().String("ris", "", "also write the merged corpus as a RIS file")

	rootCmd.AddCommand(mergeCmd)
}
