package scopuscsv

import "strings"

// Canonical field names used throughout the package.
const (
	FieldTitle           = "Title"
	FieldAuthors         = "Authors"
	FieldAuthorIDs       = "Author(s) ID"
	FieldAuthorFullNames = "Author full names"
	FieldYear            = "Year"
	FieldDOI             = "DOI"
	FieldPubMedID        = "PubMed ID"
	FieldSourceTitle     = "Source title"
	FieldVolume          = "Volume"
	FieldIssue           = "Issue"
	FieldPageStart       = "Page start"
	FieldPageEnd         = "Page end"
	FieldPageCount       = "Page count"
	FieldCitedBy         = "Cited by"
	FieldLink            = "Link"
	FieldAbstract        = "Abstract"
	FieldAffiliations    = "Affiliations"
	FieldAuthorKeywords  = "Author Keywords"
	FieldIndexKeywords   = "Index Keywords"
	FieldReferences      = "References"
	FieldFundingDetails  = "Funding Details"
	FieldDocumentType    = "Document Type"
	FieldLanguage        = "Language of Original Document"
	FieldISSN            = "ISSN"
	FieldISBN            = "ISBN"
)

// fieldSynonyms maps canonical field names to header variants seen across
// Scopus export versions.
var fieldSynonyms = map[string][]string{
	FieldAuthors:        {"Author(s)", "Author Names"},
	FieldAuthorIDs:      {"Author IDs", "Scopus Author ID"},
	FieldTitle:          {"Article Title", "Document Title"},
	FieldYear:           {"Publication Year", "Pub Year"},
	FieldAffiliations:   {"Author Affiliations", "Institution(s)"},
	FieldAbstract:       {"Summary"},
	FieldSourceTitle:    {"Journal", "Publication Name"},
	FieldPubMedID:       {"PMID"},
	FieldFundingDetails: {"Funding Text", "Funding Texts"},
}

// FieldIndex resolves canonical field names to column positions in a CSV
// header row. Lookup order per field: exact match, synonym table, then
// case-insensitive substring containment.
type FieldIndex struct {
	names   []string // header names in column order
	columns map[string]int
}

// NewFieldIndex builds a FieldIndex from a raw header row. A UTF-8 BOM on the
// first header cell is stripped.
func NewFieldIndex(header []string) *FieldIndex {
	fi := &FieldIndex{
		names:   make([]string, len(header)),
		columns: make(map[string]int, len(header)),
	}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		name = strings.TrimSpace(name)
		fi.names[i] = name
		fi.columns[name] = i
	}
	return fi
}

// Lookup returns the column position of a canonical field name, or -1 when
// the header has no matching column. Substring fallback scans columns left to
// right so resolution is deterministic.
func (fi *FieldIndex) Lookup(canonical string) int {
	if i, ok := fi.columns[canonical]; ok {
		return i
	}
	for _, variant := range fieldSynonyms[canonical] {
		if i, ok := fi.columns[variant]; ok {
			return i
		}
		for i, name := range fi.names {
			if strings.EqualFold(name, variant) {
				return i
			}
		}
	}
	lower := strings.ToLower(canonical)
	for i, name := range fi.names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i
		}
	}
	return -1
}

// Value returns the trimmed cell for a canonical field name, or "" when the
// column is missing from the export.
func (fi *FieldIndex) Value(row []string, canonical string) string {
	i := fi.Lookup(canonical)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
