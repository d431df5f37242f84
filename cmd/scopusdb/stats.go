package main

import (
	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/config"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/store"
)

var statsDB string

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", "", "Database path (overrides config)")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts for an existing database",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// StatsResult is the JSON response of the stats command.
type StatsResult struct {
	Database string        `json:"database"`
	Counts   store.Summary `json:"counts"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	dbPath := cfg.Database.Path
	if statsDB != "" {
		dbPath = statsDB
	}

	st, err := store.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer st.Close()

	sum, err := st.Summarize()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Database: %s\n", dbPath)
		outputHuman("  papers:       %d\n", sum.Papers)
		outputHuman("  authors:      %d\n", sum.Authors)
		outputHuman("  institutions: %d\n", sum.Institutions)
		outputHuman("  keywords:     %d\n", sum.Keywords)
		outputHuman("  citations:    %d\n", sum.Citations)
		outputHuman("  funding:      %d\n", sum.Funding)
		outputHuman("  missing DOI:  %d\n", sum.MissingDOI)
		return nil
	}
	return outputJSON(StatsResult{Database: dbPath, Counts: sum})
}
