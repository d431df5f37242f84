package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/refparse"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/scopuscsv"
)

// maxReferenceTextLen caps the raw citation text stored per reference.
const maxReferenceTextLen = 500

// ImportStats counts entities written by one import.
type ImportStats struct {
	Papers       int `json:"papers"`
	Authors      int `json:"authors"`
	Institutions int `json:"institutions"`
	Keywords     int `json:"keywords"`
	Citations    int `json:"citations"`
	Funding      int `json:"funding"`
}

// importSession stages one transactional import. New registry entries
// are held locally and merged into the store only after commit, so a
// failed import leaves the registries consistent with the database.
type importSession struct {
	tx           *sql.Tx
	store        *Store
	authors      map[string]int64
	institutions map[string]int64
	keywords     map[string]int64
	stats        ImportStats
}

// ImportRecords writes records and all their derived entities in a
// single transaction. References are parsed into structured citations
// as part of the import.
func (s *Store) ImportRecords(records []scopuscsv.Record) (ImportStats, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return ImportStats{}, fmt.Errorf("beginning import: %w", err)
	}

	ses := &importSession{
		tx:           tx,
		store:        s,
		authors:      make(map[string]int64),
		institutions: make(map[string]int64),
		keywords:     make(map[string]int64),
	}

	for i, rec := range records {
		if err := ses.importRecord(rec); err != nil {
			tx.Rollback()
			return ImportStats{}, fmt.Errorf("importing record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("committing import: %w", err)
	}

	for k, v := range ses.authors {
		s.authors[k] = v
	}
	for k, v := range ses.institutions {
		s.institutions[k] = v
	}
	for k, v := range ses.keywords {
		s.keywords[k] = v
	}
	return ses.stats, nil
}

func (ses *importSession) importRecord(rec scopuscsv.Record) error {
	paperID, err := ses.insertPaper(rec)
	if err != nil {
		return err
	}
	ses.stats.Papers++

	if err := ses.importAuthors(paperID, rec); err != nil {
		return err
	}
	if err := ses.importInstitutions(paperID, rec); err != nil {
		return err
	}
	if err := ses.importKeywords(paperID, rec); err != nil {
		return err
	}
	if err := ses.importCitations(paperID, rec); err != nil {
		return err
	}
	return ses.importFunding(paperID, rec)
}

func (ses *importSession) insertPaper(rec scopuscsv.Record) (int64, error) {
	res, err := ses.tx.Exec(`INSERT INTO papers (
  title, authors, year, doi, pubmed_id, source_title, volume, issue,
  page_start, page_end, page_count, cited_by, scopus_link, abstract,
  language_original, document_type, issn, isbn
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Title,
		rec.Authors,
		intOrNull(rec.Year),
		rec.DOI,
		rec.PubMedID,
		rec.SourceTitle,
		rec.Volume,
		rec.Issue,
		rec.PageStart,
		rec.PageEnd,
		intOrNull(rec.PageCount),
		intOrZero(rec.CitedBy),
		rec.Link,
		rec.Abstract,
		rec.Language,
		rec.DocumentType,
		rec.ISSN,
		rec.ISBN,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting paper %q: %w", rec.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading paper id: %w", err)
	}
	return id, nil
}

// authorID resolves a Scopus author ID against the committed and
// staged registries.
func (ses *importSession) authorID(scopusID string) (int64, bool) {
	if id, ok := ses.authors[scopusID]; ok {
		return id, true
	}
	id, ok := ses.store.authors[scopusID]
	return id, ok
}

func (ses *importSession) institutionID(name string) (int64, bool) {
	if id, ok := ses.institutions[name]; ok {
		return id, true
	}
	id, ok := ses.store.institutions[name]
	return id, ok
}

func (ses *importSession) keywordID(normalized string) (int64, bool) {
	if id, ok := ses.keywords[normalized]; ok {
		return id, true
	}
	id, ok := ses.store.keywords[normalized]
	return id, ok
}

func (ses *importSession) importAuthors(paperID int64, rec scopuscsv.Record) error {
	names := scopuscsv.SplitMultiValue(rec.Authors)
	scopusIDs := scopuscsv.SplitMultiValue(rec.AuthorIDs)
	fullNames := scopuscsv.SplitMultiValue(rec.AuthorFullNames)

	n := len(names)
	if len(scopusIDs) < n {
		n = len(scopusIDs)
	}

	for i := 0; i < n; i++ {
		scopusID := scopusIDs[i]
		id, ok := ses.authorID(scopusID)
		if !ok {
			fullName := names[i]
			if i < len(fullNames) {
				fullName = stripNameID(fullNames[i])
			}
			res, err := ses.tx.Exec(`INSERT INTO authors_master
  (scopus_id, full_name, canonical_name, abbreviated_name)
  VALUES (?, ?, ?, ?)`,
				scopusID, fullName, canonicalizeAuthorName(fullName), names[i])
			if err != nil {
				return fmt.Errorf("inserting author %q: %w", names[i], err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("reading author id: %w", err)
			}
			ses.authors[scopusID] = id
			ses.stats.Authors++
		}

		_, err := ses.tx.Exec(`INSERT OR IGNORE INTO paper_authors
  (paper_id, author_id, position, first_author, last_author)
  VALUES (?, ?, ?, ?, ?)`,
			paperID, id, i+1, i == 0, i == n-1)
		if err != nil {
			return fmt.Errorf("linking author %q: %w", names[i], err)
		}
	}
	return nil
}

func (ses *importSession) importInstitutions(paperID int64, rec scopuscsv.Record) error {
	counts := make(map[string]int)
	var order []string

	for _, aff := range scopuscsv.SplitMultiValue(rec.Affiliations) {
		name := extractInstitutionName(aff)
		if name == "" {
			continue
		}
		if _, ok := ses.institutionID(name); !ok {
			res, err := ses.tx.Exec(`INSERT INTO institutions_master
  (canonical_name, country) VALUES (?, ?)`,
				name, extractCountry(aff))
			if err != nil {
				return fmt.Errorf("inserting institution %q: %w", name, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("reading institution id: %w", err)
			}
			ses.institutions[name] = id
			ses.stats.Institutions++
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	for _, name := range order {
		id, _ := ses.institutionID(name)
		_, err := ses.tx.Exec(`INSERT OR IGNORE INTO paper_institutions
  (paper_id, institution_id, author_count, primary_affiliation)
  VALUES (?, ?, ?, ?)`,
			paperID, id, counts[name], counts[name] == max)
		if err != nil {
			return fmt.Errorf("linking institution %q: %w", name, err)
		}
	}
	return nil
}

func (ses *importSession) importKeywords(paperID int64, rec scopuscsv.Record) error {
	groups := []struct {
		raw      string
		category string
	}{
		{rec.AuthorKeywords, "author"},
		{rec.IndexKeywords, "index"},
	}

	for _, g := range groups {
		for pos, kw := range scopuscsv.SplitMultiValue(g.raw) {
			normalized := normalizeKeyword(kw)
			if normalized == "" {
				continue
			}
			id, ok := ses.keywordID(normalized)
			if !ok {
				res, err := ses.tx.Exec(`INSERT INTO keywords_master
  (keyword_text, keyword_category, normalized_text) VALUES (?, ?, ?)`,
					kw, g.category, normalized)
				if err != nil {
					return fmt.Errorf("inserting keyword %q: %w", kw, err)
				}
				if id, err = res.LastInsertId(); err != nil {
					return fmt.Errorf("reading keyword id: %w", err)
				}
				ses.keywords[normalized] = id
				ses.stats.Keywords++
			}

			_, err := ses.tx.Exec(`INSERT OR IGNORE INTO paper_keywords
  (paper_id, keyword_id, keyword_type, position) VALUES (?, ?, ?, ?)`,
				paperID, id, g.category, pos+1)
			if err != nil {
				return fmt.Errorf("linking keyword %q: %w", kw, err)
			}
		}
	}
	return nil
}

func (ses *importSession) importCitations(paperID int64, rec scopuscsv.Record) error {
	for pos, ref := range scopuscsv.SplitMultiValue(rec.References) {
		parsed := refparse.Parse(ref)

		text := parsed.Raw
		if runes := []rune(text); len(runes) > maxReferenceTextLen {
			text = string(runes[:maxReferenceTextLen])
		}

		var year any
		if parsed.Year > 0 {
			year = parsed.Year
		}

		_, err := ses.tx.Exec(`INSERT INTO paper_citations
  (citing_paper_id, reference_text, reference_year, reference_authors,
   reference_title, reference_journal, reference_volume, reference_issue,
   reference_pages, position)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			paperID, text, year, parsed.Authors, parsed.Title, parsed.Journal,
			parsed.Volume, parsed.Issue, parsed.Pages, pos+1)
		if err != nil {
			return fmt.Errorf("inserting citation %d: %w", pos+1, err)
		}
		ses.stats.Citations++
	}
	return nil
}

func (ses *importSession) importFunding(paperID int64, rec scopuscsv.Record) error {
	for _, entry := range scopuscsv.SplitMultiValue(rec.FundingDetails) {
		agency, grants := parseFundingEntry(entry)
		if agency == "" {
			continue
		}
		if grants == nil {
			grants = []string{}
		}
		grantsJSON, err := json.Marshal(grants)
		if err != nil {
			return fmt.Errorf("encoding grant numbers: %w", err)
		}
		_, err = ses.tx.Exec(`INSERT INTO paper_funding
  (paper_id, agency_name, grant_numbers) VALUES (?, ?, ?)`,
			paperID, agency, string(grantsJSON))
		if err != nil {
			return fmt.Errorf("inserting funding %q: %w", agency, err)
		}
		ses.stats.Funding++
	}
	return nil
}

// intOrNull converts a numeric CSV value, storing NULL for anything
// non-numeric.
func intOrNull(s string) any {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return n
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
