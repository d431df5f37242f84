package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/config"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/crossref"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/recovery"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/report"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/store"
)

var (
	enrichDB     string
	enrichReport string
	enrichLimit  int
	enrichDryRun bool
)

func init() {
	enrichCmd.Flags().StringVar(&enrichDB, "db", "", "Database path (overrides config)")
	enrichCmd.Flags().StringVar(&enrichReport, "report", "", "Write an enrichment report JSON to this path")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Process at most N papers (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "Search CrossRef but do not write recovered DOIs")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Recover missing DOIs through the CrossRef API",
	Long: `Recover missing DOIs for papers in an existing database.

Each paper without a DOI goes through up to three CrossRef searches in
order of decreasing precision: PubMed ID lookup, structured journal
search, and fuzzy title search. A candidate DOI is only accepted when
its bibliographic agreement clears the phase's confidence threshold.

Requests run through CrossRef's polite pool, which requires a contact
email (crossref.email in scopusdb.yml, or CROSSREF_EMAIL).`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

// EnrichResult is the JSON response of the enrich command.
type EnrichResult struct {
	Database   string         `json:"database"`
	Candidates int            `json:"candidates"`
	Recovered  int            `json:"recovered"`
	DryRun     bool           `json:"dry_run,omitempty"`
	Pipeline   recovery.Stats `json:"pipeline"`
	Client     crossref.Stats `json:"client"`
	ReportFile string         `json:"report_file,omitempty"`
	Duration   string         `json:"duration"`
}

func runEnrich(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	dbPath := cfg.Database.Path
	if enrichDB != "" {
		dbPath = enrichDB
	}

	client, err := crossref.NewClient(cfg.CrossRef.Email,
		crossref.WithRateLimit(cfg.CrossRef.RateLimit),
		crossref.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.CrossRef.TimeoutSeconds) * time.Second,
		}),
	)
	if err != nil {
		exitWithError(ExitConfigError, "%v (set crossref.email in scopusdb.yml or CROSSREF_EMAIL)", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer st.Close()

	if err := st.EnsureEnrichmentColumns(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	stubs, err := st.PapersMissingDOI(ctx)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if enrichLimit > 0 && len(stubs) > enrichLimit {
		stubs = stubs[:enrichLimit]
	}

	pipe := recovery.New(client, recovery.Thresholds{
		IDLookup:   cfg.CrossRef.Thresholds.IDLookup,
		Structured: cfg.CrossRef.Thresholds.Structured,
		Fuzzy:      cfg.CrossRef.Thresholds.Fuzzy,
	})
	rep := report.NewEnrichment(dbPath)

	recovered := 0
	for _, stub := range stubs {
		out, err := pipe.Recover(ctx, recovery.Input{
			PubMedID: stub.PubMedID,
			Title:    stub.Title,
			Authors:  stub.Authors,
			Year:     stub.Year,
			Journal:  stub.SourceTitle,
			Volume:   stub.Volume,
			Pages:    stub.Pages(),
		})
		if err != nil {
			if crossref.IsAuthError(err) {
				exitWithError(ExitAuthError, "%v", err)
			}
			exitWithError(ExitError, "recovering paper %d: %v", stub.PaperID, err)
		}
		if out.DOI == "" || out.Method == recovery.MethodNone {
			continue
		}

		if !enrichDryRun {
			if err := st.RecordRecoveredDOI(ctx, stub.PaperID, out.DOI, out.Confidence, out.Method, "crossref"); err != nil {
				exitWithError(ExitError, "%v", err)
			}
		}
		recovered++
		rep.Add(report.RecoveredEntry{
			PaperID:    stub.PaperID,
			Title:      stub.Title,
			DOI:        out.DOI,
			Method:     out.Method,
			Confidence: out.Confidence,
			Status:     out.Status,
		})
	}

	rep.Pipeline = pipe.Stats()
	rep.Client = client.Stats()
	rep.DurationSeconds = time.Since(start).Seconds()
	if enrichReport != "" {
		if err := rep.WriteJSON(enrichReport); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	result := EnrichResult{
		Database:   dbPath,
		Candidates: len(stubs),
		Recovered:  recovered,
		DryRun:     enrichDryRun,
		Pipeline:   rep.Pipeline,
		Client:     rep.Client,
		ReportFile: enrichReport,
		Duration:   formatDuration(time.Since(start)),
	}

	if humanOutput {
		outputHuman("Recovered %d of %d missing DOIs in %s (%s)\n",
			recovered, len(stubs), dbPath, result.Duration)
		outputHuman("  id_lookup: %d/%d  structured: %d/%d  fuzzy: %d/%d\n",
			result.Pipeline.IDLookup.Succeeded, result.Pipeline.IDLookup.Attempted,
			result.Pipeline.Structured.Succeeded, result.Pipeline.Structured.Attempted,
			result.Pipeline.Fuzzy.Succeeded, result.Pipeline.Fuzzy.Attempted)
		if enrichDryRun {
			outputHuman("  dry run: nothing written to the database\n")
		}
		return nil
	}
	return outputJSON(result)
}
