// Package config handles builder configuration loaded from scopusdb.yml.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "scopusdb.yml"

// Config is the full builder configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	CrossRef CrossRefConfig `yaml:"crossref"`
	Quality  QualityConfig  `yaml:"quality"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CrossRefConfig controls the DOI recovery client.
type CrossRefConfig struct {
	Email          string           `yaml:"email"`
	RateLimit      float64          `yaml:"rate_limit"`
	TimeoutSeconds int              `yaml:"timeout_seconds"`
	Thresholds     ThresholdsConfig `yaml:"thresholds"`
}

// ThresholdsConfig sets per-phase confidence acceptance thresholds.
type ThresholdsConfig struct {
	IDLookup   float64 `yaml:"id_lookup"`
	Structured float64 `yaml:"structured"`
	Fuzzy      float64 `yaml:"fuzzy"`
}

// QualityConfig controls the required-field screen.
type QualityConfig struct {
	RequiredFields []string `yaml:"required_fields"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "scopus.db"},
		CrossRef: CrossRefConfig{
			RateLimit:      2.0,
			TimeoutSeconds: 30,
			Thresholds: ThresholdsConfig{
				IDLookup:   0.80,
				Structured: 0.75,
				Fuzzy:      0.65,
			},
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides and
// validates. An empty path means DefaultFile.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment override file values, so credentials
// stay out of committed config.
func (c *Config) applyEnv() {
	if email := os.Getenv("CROSSREF_EMAIL"); email != "" {
		c.CrossRef.Email = email
	}
	if rl := os.Getenv("CROSSREF_RATE_LIMIT"); rl != "" {
		if v, err := strconv.ParseFloat(rl, 64); err == nil {
			c.CrossRef.RateLimit = v
		}
	}
	if path := os.Getenv("SCOPUSDB_PATH"); path != "" {
		c.Database.Path = path
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.CrossRef.Email != "" && !looksLikeEmail(c.CrossRef.Email) {
		return fmt.Errorf("crossref.email %q is not a valid address", c.CrossRef.Email)
	}
	if c.CrossRef.RateLimit <= 0 {
		return fmt.Errorf("crossref.rate_limit must be positive, got %v", c.CrossRef.RateLimit)
	}
	if c.CrossRef.TimeoutSeconds <= 0 {
		return fmt.Errorf("crossref.timeout_seconds must be positive, got %d", c.CrossRef.TimeoutSeconds)
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"id_lookup", c.CrossRef.Thresholds.IDLookup},
		{"structured", c.CrossRef.Thresholds.Structured},
		{"fuzzy", c.CrossRef.Thresholds.Fuzzy},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("crossref.thresholds.%s must be in [0, 1], got %v", t.name, t.value)
		}
	}
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
