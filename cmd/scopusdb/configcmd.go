package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/config"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/quality"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: defaults, overlaid with
scopusdb.yml if present, overlaid with environment variables
(CROSSREF_EMAIL, CROSSREF_RATE_LIMIT, SCOPUSDB_PATH).`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the JSON response of the config command.
type ConfigResponse struct {
	DatabasePath        string   `json:"database_path"`
	CrossRefEmail       string   `json:"crossref_email"`
	CrossRefRateLimit   float64  `json:"crossref_rate_limit"`
	CrossRefTimeout     int      `json:"crossref_timeout_seconds"`
	ThresholdIDLookup   float64  `json:"threshold_id_lookup"`
	ThresholdStructured float64  `json:"threshold_structured"`
	ThresholdFuzzy      float64  `json:"threshold_fuzzy"`
	RequiredFields      []string `json:"required_fields"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	fields := cfg.Quality.RequiredFields
	if len(fields) == 0 {
		fields = quality.DefaultRequiredFields
	}

	if humanOutput {
		outputHuman("database-path:       %s\n", cfg.Database.Path)
		outputHuman("crossref-email:      %s\n", cfg.CrossRef.Email)
		outputHuman("crossref-rate-limit: %.1f req/s\n", cfg.CrossRef.RateLimit)
		outputHuman("crossref-timeout:    %ds\n", cfg.CrossRef.TimeoutSeconds)
		outputHuman("thresholds:          id_lookup %.2f, structured %.2f, fuzzy %.2f\n",
			cfg.CrossRef.Thresholds.IDLookup,
			cfg.CrossRef.Thresholds.Structured,
			cfg.CrossRef.Thresholds.Fuzzy)
		outputHuman("required-fields:     %s\n", strings.Join(fields, ", "))
		return nil
	}
	return outputJSON(ConfigResponse{
		DatabasePath:        cfg.Database.Path,
		CrossRefEmail:       cfg.CrossRef.Email,
		CrossRefRateLimit:   cfg.CrossRef.RateLimit,
		CrossRefTimeout:     cfg.CrossRef.TimeoutSeconds,
		ThresholdIDLookup:   cfg.CrossRef.Thresholds.IDLookup,
		ThresholdStructured: cfg.CrossRef.Thresholds.Structured,
		ThresholdFuzzy:      cfg.CrossRef.Thresholds.Fuzzy,
		RequiredFields:      fields,
	})
}
