// Package store builds and maintains the normalized SQLite database
// produced from Scopus exports. Authors, institutions, and keywords are
// deduplicated into master tables through in-memory registries; papers
// reference them through relationship tables.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a handle to one Scopus database.
type Store struct {
	db   *sql.DB
	path string

	// Registries map natural keys to master-table row IDs so repeated
	// imports reuse existing entities instead of duplicating them.
	authors      map[string]int64 // Scopus author ID -> author_id
	institutions map[string]int64 // canonical name -> institution_id
	keywords     map[string]int64 // normalized text -> keyword_id
}

// Open opens (creating if necessary) a Scopus database at path and
// loads the entity registries.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:           db,
		path:         path,
		authors:      make(map[string]int64),
		institutions: make(map[string]int64),
		keywords:     make(map[string]int64),
	}
	if err := s.loadRegistries(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) loadRegistries() error {
	type reg struct {
		query string
		dest  map[string]int64
	}
	for _, r := range []reg{
		{"SELECT scopus_id, author_id FROM authors_master", s.authors},
		{"SELECT canonical_name, institution_id FROM institutions_master", s.institutions},
		{"SELECT normalized_text, keyword_id FROM keywords_master", s.keywords},
	} {
		rows, err := s.db.Query(r.query)
		if err != nil {
			return fmt.Errorf("loading registry: %w", err)
		}
		for rows.Next() {
			var key sql.NullString
			var id int64
			if err := rows.Scan(&key, &id); err != nil {
				rows.Close()
				return fmt.Errorf("scanning registry row: %w", err)
			}
			if key.Valid && key.String != "" {
				r.dest[key.String] = id
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("reading registry: %w", err)
		}
		rows.Close()
	}
	return nil
}

// Summary reports row counts per table.
type Summary struct {
	Papers       int `json:"papers"`
	Authors      int `json:"authors"`
	Institutions int `json:"institutions"`
	Keywords     int `json:"keywords"`
	Citations    int `json:"citations"`
	Funding      int `json:"funding"`
	MissingDOI   int `json:"missing_doi"`
}

// Summarize counts the database contents.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM papers", &sum.Papers},
		{"SELECT COUNT(*) FROM authors_master", &sum.Authors},
		{"SELECT COUNT(*) FROM institutions_master", &sum.Institutions},
		{"SELECT COUNT(*) FROM keywords_master", &sum.Keywords},
		{"SELECT COUNT(*) FROM paper_citations", &sum.Citations},
		{"SELECT COUNT(*) FROM paper_funding", &sum.Funding},
		{"SELECT COUNT(*) FROM papers WHERE doi IS NULL OR doi = ''", &sum.MissingDOI},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return Summary{}, fmt.Errorf("summarizing database: %w", err)
		}
	}
	return sum, nil
}
