package store

import (
	"database/sql"
	"fmt"
)

// Master entity tables hold each unique author, institution, and
// keyword exactly once; relationship tables link them to papers.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS papers (
  paper_id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  authors TEXT,
  year INTEGER,
  doi TEXT,
  pubmed_id TEXT,
  source_title TEXT,
  volume TEXT,
  issue TEXT,
  page_start TEXT,
  page_end TEXT,
  page_count INTEGER,
  cited_by INTEGER DEFAULT 0,
  scopus_link TEXT,
  abstract TEXT,
  language_original TEXT,
  document_type TEXT,
  issn TEXT,
  isbn TEXT
)`,
	`CREATE TABLE IF NOT EXISTS authors_master (
  author_id INTEGER PRIMARY KEY,
  scopus_id TEXT UNIQUE,
  full_name TEXT,
  canonical_name TEXT,
  abbreviated_name TEXT
)`,
	`CREATE TABLE IF NOT EXISTS institutions_master (
  institution_id INTEGER PRIMARY KEY,
  canonical_name TEXT UNIQUE,
  country TEXT
)`,
	`CREATE TABLE IF NOT EXISTS keywords_master (
  keyword_id INTEGER PRIMARY KEY,
  keyword_text TEXT,
  keyword_category TEXT,
  normalized_text TEXT UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS paper_authors (
  paper_id INTEGER,
  author_id INTEGER,
  position INTEGER,
  first_author BOOLEAN DEFAULT FALSE,
  last_author BOOLEAN DEFAULT FALSE,
  PRIMARY KEY (paper_id, author_id),
  FOREIGN KEY (paper_id) REFERENCES papers(paper_id),
  FOREIGN KEY (author_id) REFERENCES authors_master(author_id)
)`,
	`CREATE TABLE IF NOT EXISTS paper_keywords (
  paper_id INTEGER,
  keyword_id INTEGER,
  keyword_type TEXT CHECK (keyword_type IN ('author', 'index')),
  position INTEGER,
  PRIMARY KEY (paper_id, keyword_id, keyword_type),
  FOREIGN KEY (paper_id) REFERENCES papers(paper_id),
  FOREIGN KEY (keyword_id) REFERENCES keywords_master(keyword_id)
)`,
	`CREATE TABLE IF NOT EXISTS paper_institutions (
  paper_id INTEGER,
  institution_id INTEGER,
  author_count INTEGER DEFAULT 1,
  primary_affiliation BOOLEAN DEFAULT FALSE,
  PRIMARY KEY (paper_id, institution_id),
  FOREIGN KEY (paper_id) REFERENCES papers(paper_id),
  FOREIGN KEY (institution_id) REFERENCES institutions_master(institution_id)
)`,
	`CREATE TABLE IF NOT EXISTS paper_citations (
  citation_id INTEGER PRIMARY KEY AUTOINCREMENT,
  citing_paper_id INTEGER,
  reference_text TEXT,
  reference_year INTEGER,
  reference_authors TEXT,
  reference_title TEXT,
  reference_journal TEXT,
  reference_volume TEXT,
  reference_issue TEXT,
  reference_pages TEXT,
  position INTEGER,
  FOREIGN KEY (citing_paper_id) REFERENCES papers(paper_id)
)`,
	`CREATE TABLE IF NOT EXISTS paper_funding (
  funding_id INTEGER PRIMARY KEY AUTOINCREMENT,
  paper_id INTEGER,
  agency_name TEXT NOT NULL,
  grant_numbers TEXT,
  FOREIGN KEY (paper_id) REFERENCES papers(paper_id)
)`,
}

var indexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_papers_year ON papers (year)",
	"CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers (doi)",
	"CREATE INDEX IF NOT EXISTS idx_papers_source ON papers (source_title)",
	"CREATE INDEX IF NOT EXISTS idx_authors_canonical ON authors_master (canonical_name)",
	"CREATE INDEX IF NOT EXISTS idx_authors_scopus ON authors_master (scopus_id)",
	"CREATE INDEX IF NOT EXISTS idx_institutions_name ON institutions_master (canonical_name)",
	"CREATE INDEX IF NOT EXISTS idx_institutions_country ON institutions_master (country)",
	"CREATE INDEX IF NOT EXISTS idx_keywords_normalized ON keywords_master (normalized_text)",
	"CREATE INDEX IF NOT EXISTS idx_paper_authors_author ON paper_authors (author_id)",
	"CREATE INDEX IF NOT EXISTS idx_paper_keywords_keyword ON paper_keywords (keyword_id)",
	"CREATE INDEX IF NOT EXISTS idx_citations_citing ON paper_citations (citing_paper_id)",
	"CREATE INDEX IF NOT EXISTS idx_citations_year ON paper_citations (reference_year)",
	"CREATE INDEX IF NOT EXISTS idx_funding_paper ON paper_funding (paper_id)",
}

// enrichmentColumns are added lazily so databases built before DOI
// recovery ran can be enriched in place.
var enrichmentColumns = []struct {
	name    string
	sqlType string
}{
	{"_enrichment_timestamp", "TEXT"},
	{"_enrichment_source", "TEXT"},
	{"_enrichment_confidence", "REAL"},
	{"_recovery_method", "TEXT"},
}

func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
	}
	return nil
}
