// Package main provides the scopusdb CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath points at scopusdb.yml; empty means the working directory.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scopusdb",
	Short: "Build normalized SQLite databases from Scopus exports",
	Long: `scopusdb turns raw Scopus CSV exports into a normalized SQLite
database: papers, deduplicated authors, institutions, and keywords,
plus structured citations parsed from free-text reference strings.

Records failing the data-quality screen are excluded and reported.
Papers without a DOI can be enriched afterwards through the CrossRef
API. All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// CROSSREF_EMAIL and friends may live in a local .env file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to scopusdb.yml (default ./scopusdb.yml)")
	rootCmd.Version = Version
}
