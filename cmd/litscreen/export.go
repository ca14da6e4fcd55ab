package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/data-community-of-practice/litscreen/internal/export"
	"github.com/data-community-of-practice/litscreen/internal/ingest"
)

var exportCmd = &cobra.Command{
	Use:   "export <works-file> <out-file>",
	Short: "Export merged works to CSV, CSL YAML, or RIS",
	Long: `Export converts a merged works file into a format downstream tools
consume: csv for spreadsheet review, csl for citation processors such
as pandoc, or ris for reference managers.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	wf, err := ingest.ReadWorksFile(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[1], err)
	}
	defer f.Close()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv":
		err = export.WriteCSV(f, wf.Works, nil)
	case "csl":
		err = export.WriteCSL(f, wf.Works)
	case "ris":
		err = ingest.WriteRIS(f, wf.Works)
	default:
		return fmt.Errorf("unknown format %q (want csv, csl, or ris)", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d works to %s (%s)\n", len(wf.Works), args[1], format)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "csv", "output format: csv, csl, or ris")

	rootCmd.AddCommand(exportCmd)
}
