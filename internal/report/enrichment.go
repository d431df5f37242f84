package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/crossref"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/recovery"
)

// RecoveredEntry is one paper whose DOI was recovered during a run.
type RecoveredEntry struct {
	PaperID    int64   `json:"paper_id"`
	Title      string  `json:"title"`
	DOI        string  `json:"doi"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Status     string  `json:"status"`
}

// Enrichment summarizes one DOI recovery run.
type Enrichment struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Database        string           `json:"database"`
	DurationSeconds float64          `json:"duration_seconds"`
	Pipeline        recovery.Stats   `json:"pipeline"`
	Client          crossref.Stats   `json:"client"`
	Recovered       []RecoveredEntry `json:"recovered"`
}

// NewEnrichment starts a report for the given database.
func NewEnrichment(database string) *Enrichment {
	return &Enrichment{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Database:    database,
		Recovered:   []RecoveredEntry{},
	}
}

// Add records one recovered DOI.
func (e *Enrichment) Add(entry RecoveredEntry) {
	e.Recovered = append(e.Recovered, entry)
}

// WriteJSON writes the report to path.
func (e *Enrichment) WriteJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encoding enrichment report: %w", err)
	}
	return nil
}
