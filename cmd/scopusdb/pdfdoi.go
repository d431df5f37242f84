package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/pdfdoi"
)

func init() {
	rootCmd.AddCommand(pdfDOICmd)
}

var pdfDOICmd = &cobra.Command{
	Use:   "pdf-doi <file-or-directory>",
	Short: "Extract DOIs from PDF files",
	Long: `Extract DOIs from the first pages of PDF files. Given a directory,
every .pdf underneath it is scanned; per-file failures are reported
alongside the successes instead of aborting the scan.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDFDOI,
}

func runPDFDOI(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	var results []pdfdoi.Result
	if info.IsDir() {
		results, err = pdfdoi.ScanDir(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
	} else {
		doi, err := pdfdoi.ExtractDOI(args[0])
		r := pdfdoi.Result{Path: args[0], DOI: doi}
		if err != nil {
			r.Err = err.Error()
		}
		results = []pdfdoi.Result{r}
	}

	if humanOutput {
		for _, r := range results {
			switch {
			case r.Err != "":
				outputHuman("%s: error: %s\n", r.Path, r.Err)
			case r.DOI == "":
				outputHuman("%s: no DOI found\n", r.Path)
			default:
				outputHuman("%s: %s\n", r.Path, r.DOI)
			}
		}
		return nil
	}
	return outputJSON(results)
}
