package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/config"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/export"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/store"
)

var (
	exportDB  string
	exportOut string
)

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "Database path (overrides config)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export database papers as BibTeX",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	dbPath := cfg.Database.Path
	if exportDB != "" {
		dbPath = exportDB
	}

	st, err := store.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer st.Close()

	entries, err := st.BibEntries(cmd.Context())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	bib := export.ToBibTeXList(entries)

	if exportOut == "" {
		_, err = os.Stdout.WriteString(bib)
	} else {
		err = os.WriteFile(exportOut, []byte(bib), 0644)
	}
	if err != nil {
		exitWithError(ExitError, "writing BibTeX: %v", err)
	}
	return nil
}
