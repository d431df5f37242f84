// Package quality screens imported records for the fields downstream
// analysis cannot do without. Records failing the screen are excluded
// from the database and reported with machine-readable reasons.
package quality

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/scopuscsv"
)

// DefaultRequiredFields is the standard completeness screen.
var DefaultRequiredFields = []string{
	"authors",
	"author_ids",
	"title",
	"year",
	"affiliations",
	"abstract",
}

// noAbstractMarker is the placeholder Scopus exports when a record has
// no abstract; it counts as missing.
const noAbstractMarker = "[no abstract available]"

// fieldGetters maps a screenable field name to its record accessor.
var fieldGetters = map[string]func(scopuscsv.Record) string{
	"authors":      func(r scopuscsv.Record) string { return r.Authors },
	"author_ids":   func(r scopuscsv.Record) string { return r.AuthorIDs },
	"title":        func(r scopuscsv.Record) string { return r.Title },
	"year":         func(r scopuscsv.Record) string { return r.Year },
	"affiliations": func(r scopuscsv.Record) string { return r.Affiliations },
	"abstract":     func(r scopuscsv.Record) string { return r.Abstract },
	"doi":          func(r scopuscsv.Record) string { return r.DOI },
	"source_title": func(r scopuscsv.Record) string { return r.SourceTitle },
	"references":   func(r scopuscsv.Record) string { return r.References },
}

// Exclusion records one filtered-out row and why it was dropped.
type Exclusion struct {
	Row     int              `json:"row"`
	Record  scopuscsv.Record `json:"record"`
	Reasons []string         `json:"reasons"`
}

// Filter checks records against a required-field list.
type Filter struct {
	required []string
}

// NewFilter builds a filter for the given field names. Unknown names
// are rejected so configuration typos surface at startup, not as a
// silently weaker screen.
func NewFilter(fields []string) (*Filter, error) {
	if len(fields) == 0 {
		fields = DefaultRequiredFields
	}
	for _, f := range fields {
		if _, ok := fieldGetters[f]; !ok {
			return nil, fmt.Errorf("unknown required field %q", f)
		}
	}
	return &Filter{required: fields}, nil
}

// Check returns the exclusion reasons for one record, in the order the
// required fields were configured. An empty slice means the record
// passes.
func (f *Filter) Check(rec scopuscsv.Record) []string {
	var reasons []string
	for _, field := range f.required {
		if missing(field, fieldGetters[field](rec)) {
			reasons = append(reasons, "MISSING_"+strings.ToUpper(field))
		}
	}
	return reasons
}

// Apply partitions records into kept and excluded. Row numbers in
// exclusions are 1-based data row positions.
func (f *Filter) Apply(records []scopuscsv.Record) (kept []scopuscsv.Record, excluded []Exclusion) {
	for i, rec := range records {
		if reasons := f.Check(rec); len(reasons) > 0 {
			excluded = append(excluded, Exclusion{Row: i + 1, Record: rec, Reasons: reasons})
			continue
		}
		kept = append(kept, rec)
	}
	return kept, excluded
}

func missing(field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	switch field {
	case "abstract":
		return strings.ToLower(value) == noAbstractMarker
	case "year":
		y, err := strconv.Atoi(value)
		return err != nil || y <= 0
	}
	return false
}
