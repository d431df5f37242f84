package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scopusdb.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CROSSREF_EMAIL", "")
	t.Setenv("CROSSREF_RATE_LIMIT", "")
	t.Setenv("SCOPUSDB_PATH", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "scopus.db" {
		t.Errorf("path = %q", cfg.Database.Path)
	}
	if cfg.CrossRef.RateLimit != 2.0 || cfg.CrossRef.Thresholds.Fuzzy != 0.65 {
		t.Errorf("crossref defaults = %+v", cfg.CrossRef)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
database:
  path: custom.db
crossref:
  email: librarian@example.org
  rate_limit: 1.5
  thresholds:
    fuzzy: 0.7
quality:
  required_fields: [title, doi]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "custom.db" {
		t.Errorf("path = %q", cfg.Database.Path)
	}
	if cfg.CrossRef.Email != "librarian@example.org" || cfg.CrossRef.RateLimit != 1.5 {
		t.Errorf("crossref = %+v", cfg.CrossRef)
	}
	if cfg.CrossRef.Thresholds.Fuzzy != 0.7 {
		t.Errorf("fuzzy threshold = %v", cfg.CrossRef.Thresholds.Fuzzy)
	}
	// Unspecified thresholds keep their defaults.
	if cfg.CrossRef.Thresholds.IDLookup != 0.80 {
		t.Errorf("id_lookup threshold = %v", cfg.CrossRef.Thresholds.IDLookup)
	}
	if len(cfg.Quality.RequiredFields) != 2 {
		t.Errorf("required fields = %v", cfg.Quality.RequiredFields)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROSSREF_EMAIL", "env@example.org")
	t.Setenv("CROSSREF_RATE_LIMIT", "0.5")

	path := writeConfig(t, `
crossref:
  email: file@example.org
  rate_limit: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CrossRef.Email != "env@example.org" {
		t.Errorf("email = %q, want env override", cfg.CrossRef.Email)
	}
	if cfg.CrossRef.RateLimit != 0.5 {
		t.Errorf("rate limit = %v, want env override", cfg.CrossRef.RateLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"valid email", func(c *Config) { c.CrossRef.Email = "a@b.org" }, true},
		{"bad email", func(c *Config) { c.CrossRef.Email = "not-an-email" }, false},
		{"zero rate", func(c *Config) { c.CrossRef.RateLimit = 0 }, false},
		{"negative timeout", func(c *Config) { c.CrossRef.TimeoutSeconds = -1 }, false},
		{"threshold above one", func(c *Config) { c.CrossRef.Thresholds.Structured = 1.2 }, false},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if ok := err == nil; ok != tt.wantOK {
				t.Errorf("Validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}
