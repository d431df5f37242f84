package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/config"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/quality"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/report"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/scopuscsv"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/store"
)

var (
	createDB         string
	createReportsDir string
	createNoReports  bool
)

func init() {
	createCmd.Flags().StringVar(&createDB, "db", "", "Database path (overrides config)")
	createCmd.Flags().StringVar(&createReportsDir, "reports-dir", "reports", "Directory for exclusion reports")
	createCmd.Flags().BoolVar(&createNoReports, "no-reports", false, "Skip writing exclusion report files")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <csv-file-or-directory>",
	Short: "Build a database from Scopus CSV exports",
	Long: `Build a normalized database from one or more Scopus CSV exports.

Given a directory, every export CSV in it (or in its raw_scopus/
subdirectory) is imported; backup and exclusion files are skipped.
Records missing required fields are excluded and reported.

Usage:
  scopusdb create export.csv
  scopusdb create ./exports --db study.db`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

// CreateResult is the JSON response of the create command.
type CreateResult struct {
	Database     string            `json:"database"`
	SourceFiles  []string          `json:"source_files"`
	TotalRecords int               `json:"total_records"`
	Excluded     int               `json:"excluded"`
	Imported     store.ImportStats `json:"imported"`
	ReportFiles  []string          `json:"report_files,omitempty"`
	Duration     string            `json:"duration"`
}

func runCreate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	dbPath := cfg.Database.Path
	if createDB != "" {
		dbPath = createDB
	}

	files, err := resolveInputFiles(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	var records []scopuscsv.Record
	for _, f := range files {
		recs, err := scopuscsv.ReadFile(f)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", f, err)
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		exitWithError(ExitDataError, "no records found in %s", args[0])
	}

	filter, err := quality.NewFilter(cfg.Quality.RequiredFields)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	kept, excluded := filter.Apply(records)
	if len(kept) == 0 {
		exitWithError(ExitDataError, "all %d records failed the quality screen", len(records))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer st.Close()

	stats, err := st.ImportRecords(kept)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	var reportFiles []string
	if len(excluded) > 0 && !createNoReports {
		reportFiles, err = report.NewExclusions(len(records), excluded).WriteAll(createReportsDir)
		if err != nil {
			exitWithError(ExitError, "writing exclusion reports: %v", err)
		}
	}

	result := CreateResult{
		Database:     dbPath,
		SourceFiles:  files,
		TotalRecords: len(records),
		Excluded:     len(excluded),
		Imported:     stats,
		ReportFiles:  reportFiles,
		Duration:     formatDuration(time.Since(start)),
	}

	if humanOutput {
		outputHuman("Imported %d of %d records into %s (%s)\n",
			stats.Papers, result.TotalRecords, dbPath, result.Duration)
		outputHuman("  authors: %d  institutions: %d  keywords: %d\n",
			stats.Authors, stats.Institutions, stats.Keywords)
		outputHuman("  citations: %d  funding entries: %d\n",
			stats.Citations, stats.Funding)
		if result.Excluded > 0 {
			outputHuman("  excluded %d records", result.Excluded)
			if len(reportFiles) > 0 {
				outputHuman(" (reports in %s)", createReportsDir)
			}
			outputHuman("\n")
		}
		return nil
	}
	return outputJSON(result)
}

// resolveInputFiles accepts either a single CSV or a directory of
// exports.
func resolveInputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return scopuscsv.FindExportFiles(path)
}
