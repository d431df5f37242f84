package scopuscsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Read parses a Scopus CSV export from r. The first row is the header; rows
// whose cells are all empty are skipped.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	fi := NewFieldIndex(header)

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if emptyRow(row) {
			continue
		}
		records = append(records, rowToRecord(fi, row))
	}
	return records, nil
}

// ReadFile reads one Scopus CSV export file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// FindExportFiles lists the CSV files in dir that look like Scopus exports,
// sorted by name. Temporary, hidden, backup, and exclusion-log files are
// skipped. When dir contains a raw_scopus/ subdirectory, that subdirectory
// is searched instead.
func FindExportFiles(dir string) ([]string, error) {
	raw := filepath.Join(dir, "raw_scopus")
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		dir = raw
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing CSV directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if strings.HasPrefix(name, "~") || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.Contains(strings.ToLower(name), "exclusion") ||
			strings.HasSuffix(name, "_backup.csv") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func rowToRecord(fi *FieldIndex, row []string) Record {
	return Record{
		Title:           fi.Value(row, FieldTitle),
		Authors:         fi.Value(row, FieldAuthors),
		AuthorIDs:       fi.Value(row, FieldAuthorIDs),
		AuthorFullNames: fi.Value(row, FieldAuthorFullNames),
		Year:            fi.Value(row, FieldYear),
		DOI:             fi.Value(row, FieldDOI),
		PubMedID:        fi.Value(row, FieldPubMedID),
		SourceTitle:     fi.Value(row, FieldSourceTitle),
		Volume:          fi.Value(row, FieldVolume),
		Issue:           fi.Value(row, FieldIssue),
		PageStart:       fi.Value(row, FieldPageStart),
		PageEnd:         fi.Value(row, FieldPageEnd),
		PageCount:       fi.Value(row, FieldPageCount),
		CitedBy:         fi.Value(row, FieldCitedBy),
		Link:            fi.Value(row, FieldLink),
		Abstract:        fi.Value(row, FieldAbstract),
		Affiliations:    fi.Value(row, FieldAffiliations),
		AuthorKeywords:  fi.Value(row, FieldAuthorKeywords),
		IndexKeywords:   fi.Value(row, FieldIndexKeywords),
		References:      fi.Value(row, FieldReferences),
		FundingDetails:  fi.Value(row, FieldFundingDetails),
		DocumentType:    fi.Value(row, FieldDocumentType),
		Language:        fi.Value(row, FieldLanguage),
		ISSN:            fi.Value(row, FieldISSN),
		ISBN:            fi.Value(row, FieldISBN),
	}
}

// SplitMultiValue splits a semicolon-delimited Scopus cell into trimmed,
// non-empty parts.
func SplitMultiValue(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
