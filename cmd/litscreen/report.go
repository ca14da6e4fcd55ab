package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/data-community-of-practice/litscreen/internal/ingest"
	"github.com/data-community-of-practice/litscreen/internal/report"
	"github.com/data-community-of-practice/litscreen/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report <works-file>",
	Short: "Analyze duplicates and source overlap in merged works",
	Long: `Report prints duplicate-cluster analysis for a merged works file:
how many works each source pair shares, which search keyphrases found
the same work, and a sample of the most duplicated clusters.

With --db it instead reads the SQLite archive: --runs lists past
screening runs, --search runs a full-text query over archived titles
and abstracts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath != "" {
		return runArchiveReport(cmd, dbPath)
	}
	if len(args) != 1 {
		return fmt.Errorf("a works file is required unless --db is given")
	}

	wf, err := ingest.ReadWorksFile(args[0])
	if err != nil {
		return err
	}

	sampleLimit, _ := cmd.Flags().GetInt("sample")
	report.FormatMergeStats(wf.Stats, os.Stdout)
	report.FormatDuplicates(wf.Works, sampleLimit, os.Stdout)
	return nil
}

func runArchiveReport(cmd *cobra.Command, dbPath string) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if query, _ := cmd.Flags().GetString("search"); query != "" {
		runID, _ := cmd.Flags().GetInt64("run")
		limit, _ := cmd.Flags().GetInt("limit")
		results, err := s.Search(ctx, query, runID, limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No archived works match the query.")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. [%s] %s (%d)\n", i+1, r.Status, r.Title, r.Year)
			if r.DOI != "" {
				fmt.Printf("   doi: %s\n", r.DOI)
			}
			if len(r.Sources) > 0 {
				fmt.Printf("   sources: %s\n", strings.Join(r.Sources, ", "))
			}
			if r.Stage != "" {
				fmt.Printf("   excluded at %s: %s\n", r.Stage, r.Reason)
			}
		}
		return nil
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}
	fmt.Printf("%-5s %-20s %-30s %8s %8s\n", "ID", "Created", "Criteria", "Input", "Incl")
	fmt.Println(strings.Repeat("-", 75))
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-30s %8d %8d\n", r.ID, r.Created, r.Criteria, r.Input, r.Included)
	}
	return nil
}

func init() {
	reportCmd.Flags().Int("sample", 10, "number of duplicate clusters to sample")
	reportCmd.Flags().String("db", "", "read from a SQLite archive instead of a works file")
	reportCmd.Flags().String("search", "", "full-text query over archived titles and abstracts")
	reportCmd.Flags().Int64("run", 0, "restrict --search to one archived run")
	reportCmd.Flags().Int("limit", 20, "maximum --search results")

	rootCmd.AddCommand(reportCmd)
}
