package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/data-community-of-practice/litscreen/internal/screen"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria <preset> <out-file>",
	Short: "Write a built-in criteria preset to an editable YAML file",
	Long: `Criteria dumps one of the built-in screening presets to a YAML file.
Edit the term sets and year range, then pass the file back to
"litscreen screen --criteria". The file is validated on load, so a
broken edit fails before any screening happens.

Available presets: ` + strings.Join(screen.Presets(), ", ") + `.`,
	Args: cobra.ExactArgs(2),
	RunE: runCriteria,
}

func runCriteria(cmd *cobra.Command, args []string) error {
	cfg, err := screen.Preset(args[0])
	if err != nil {
		return err
	}
	if err := screen.SaveConfig(args[1], cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote %s preset (%d stages) to %s\n", args[0], len(cfg.Stages), args[1])
	return nil
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
}
