package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PaperStub is the metadata DOI recovery needs for one paper.
type PaperStub struct {
	PaperID     int64
	Title       string
	Authors     string
	Year        int
	SourceTitle string
	Volume      string
	PageStart   string
	PageEnd     string
	PubMedID    string
}

// Pages renders the stub's page range for search and scoring.
func (p PaperStub) Pages() string {
	switch {
	case p.PageStart == "":
		return ""
	case p.PageEnd == "":
		return p.PageStart
	default:
		return p.PageStart + "-" + p.PageEnd
	}
}

// EnsureEnrichmentColumns adds the recovery metadata columns to the
// papers table if they are not present yet.
func (s *Store) EnsureEnrichmentColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(papers)")
	if err != nil {
		return fmt.Errorf("inspecting papers table: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading column info: %w", err)
	}

	for _, col := range enrichmentColumns {
		if existing[col.name] {
			continue
		}
		ddl := fmt.Sprintf("ALTER TABLE papers ADD COLUMN %s %s", col.name, col.sqlType)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("adding column %s: %w", col.name, err)
		}
	}
	return nil
}

// PapersMissingDOI lists papers with no DOI, in paper_id order.
func (s *Store) PapersMissingDOI(ctx context.Context) ([]PaperStub, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
  paper_id, title, COALESCE(authors, ''), COALESCE(year, 0),
  COALESCE(source_title, ''), COALESCE(volume, ''),
  COALESCE(page_start, ''), COALESCE(page_end, ''), COALESCE(pubmed_id, '')
FROM papers
WHERE doi IS NULL OR doi = ''
ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers missing DOI: %w", err)
	}
	defer rows.Close()

	var stubs []PaperStub
	for rows.Next() {
		var p PaperStub
		if err := rows.Scan(&p.PaperID, &p.Title, &p.Authors, &p.Year,
			&p.SourceTitle, &p.Volume, &p.PageStart, &p.PageEnd, &p.PubMedID); err != nil {
			return nil, fmt.Errorf("scanning paper stub: %w", err)
		}
		stubs = append(stubs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading papers missing DOI: %w", err)
	}
	return stubs, nil
}

// RecordRecoveredDOI writes a recovered DOI and its provenance onto a
// paper.
func (s *Store) RecordRecoveredDOI(ctx context.Context, paperID int64, doi string, confidence float64, method, source string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE papers SET
  doi = ?,
  _enrichment_confidence = ?,
  _recovery_method = ?,
  _enrichment_source = ?,
  _enrichment_timestamp = ?
WHERE paper_id = ?`,
		doi, confidence, method, source, time.Now().UTC().Format(time.RFC3339), paperID)
	if err != nil {
		return fmt.Errorf("recording DOI for paper %d: %w", paperID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking DOI update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("paper %d not found", paperID)
	}
	return nil
}
