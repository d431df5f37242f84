package main

import (
	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/refparse"
)

func init() {
	rootCmd.AddCommand(parseRefCmd)
}

var parseRefCmd = &cobra.Command{
	Use:   "parse-ref <reference>...",
	Short: "Parse free-text citation strings into structured fields",
	Long: `Parse one or more free-text citation strings the way the create
command parses a record's reference list. Useful for checking how a
particular reference will decompose before importing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParseRef,
}

func runParseRef(cmd *cobra.Command, args []string) error {
	parsed := make([]refparse.ParsedReference, 0, len(args))
	for _, raw := range args {
		parsed = append(parsed, refparse.Parse(raw))
	}

	if humanOutput {
		for _, p := range parsed {
			outputHuman("%s\n", p.Raw)
			if p.Authors != "" {
				outputHuman("  authors: %s\n", p.Authors)
			}
			if p.Title != "" {
				outputHuman("  title:   %s\n", p.Title)
			}
			if p.Journal != "" {
				outputHuman("  journal: %s\n", p.Journal)
			}
			if p.Volume != "" {
				outputHuman("  volume:  %s\n", p.Volume)
			}
			if p.Issue != "" {
				outputHuman("  issue:   %s\n", p.Issue)
			}
			if p.Pages != "" {
				outputHuman("  pages:   %s\n", p.Pages)
			}
			if p.Year != 0 {
				outputHuman("  year:    %d\n", p.Year)
			}
		}
		return nil
	}
	return outputJSON(parsed)
}
