package store

import (
	"context"
	"fmt"
)

// BibEntry is the flattened paper row consumed by the BibTeX exporter.
type BibEntry struct {
	PaperID      int64
	Title        string
	Authors      string
	Year         int
	DOI          string
	SourceTitle  string
	Volume       string
	Issue        string
	PageStart    string
	PageEnd      string
	DocumentType string
	Abstract     string
}

// BibEntries returns every paper in stable paper_id order.
func (s *Store) BibEntries(ctx context.Context) ([]BibEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, title,
		       COALESCE(authors, ''), COALESCE(year, 0),
		       COALESCE(doi, ''), COALESCE(source_title, ''),
		       COALESCE(volume, ''), COALESCE(issue, ''),
		       COALESCE(page_start, ''), COALESCE(page_end, ''),
		       COALESCE(document_type, ''), COALESCE(abstract, '')
		FROM papers
		ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers for export: %w", err)
	}
	defer rows.Close()

	var entries []BibEntry
	for rows.Next() {
		var e BibEntry
		if err := rows.Scan(&e.PaperID, &e.Title, &e.Authors, &e.Year,
			&e.DOI, &e.SourceTitle, &e.Volume, &e.Issue,
			&e.PageStart, &e.PageEnd, &e.DocumentType, &e.Abstract); err != nil {
			return nil, fmt.Errorf("scanning paper for export: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
