// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litscreen CLI.
// Implements: prd001-ingest, prd002-dedup, prd003-screen,
//             prd004-report, prd005-export, prd006-archive (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litscreen CLI.
var rootCmd = &cobra.Command{
	Use:   "litscreen",
	Short: "Merge, deduplicate, and screen bibliographic records for literature reviews",
	Long: `litscreen turns RIS exports harvested from ACM, PubMed, and Scopus into
a curated review corpus. It merges records across sources and search
keyphrases, deduplicates them by DOI, and runs a staged PRISMA-style
screening pipeline that records why every work was kept or removed.

Each step is a subcommand: merge, screen, report, export. Criteria for
the screening stages come from built-in presets or a YAML file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litscreen.yaml or ~/.config/litscreen/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litscreen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litscreen"))
		}
	}

	viper.SetEnvPrefix("LITSCREEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
