// Package confidence scores how well a CrossRef candidate matches the
// reference it was retrieved for. Scores start from a base determined
// by the retrieval method and are adjusted by bibliographic agreement,
// then clamped to [0, 1] and bucketed into a status label.
package confidence

import (
	"fmt"
	"strings"
	"unicode"
)

// Method identifies how a candidate was retrieved. More precise methods
// earn a higher base score.
type Method string

const (
	IDLookup         Method = "id_lookup"
	StructuredSearch Method = "structured_search"
	FuzzySearch      Method = "fuzzy_search"
)

// Base scores per retrieval method.
const (
	baseIDLookup   = 0.95
	baseStructured = 0.85
	baseFuzzy      = 0.70
)

// Status buckets.
const (
	StatusHigh    = "high"
	StatusMedium  = "medium"
	StatusLow     = "low"
	StatusVeryLow = "very_low"
)

// Reference is the scoring view of a parsed citation.
type Reference struct {
	Title          string
	AuthorFamilies []string
	Year           int
	Volume         string
	Pages          string
}

// Candidate is the scoring view of a CrossRef work.
type Candidate struct {
	Title          string
	AuthorFamilies []string
	Year           int
	Volume         string
	Page           string
}

// Result is a scored match.
type Result struct {
	Score   float64  `json:"score"`
	Status  string   `json:"status"`
	Factors []string `json:"factors"`
}

// Score rates a candidate against a reference. Adjustments are applied
// in a fixed order (year, title, authors, publication details) so that
// the factor trail is reproducible across runs.
func Score(m Method, ref Reference, cand Candidate) Result {
	var score float64
	switch m {
	case IDLookup:
		score = baseIDLookup
	case StructuredSearch:
		score = baseStructured
	default:
		score = baseFuzzy
	}
	factors := []string{fmt.Sprintf("base_%s(%.2f)", m, score)}

	add := func(delta float64, factor string) {
		score += delta
		factors = append(factors, fmt.Sprintf("%s(%+.2f)", factor, delta))
	}

	switch {
	case ref.Year > 0 && cand.Year > 0 && ref.Year == cand.Year:
		add(0.10, "year_match")
	case ref.Year > 0 && cand.Year > 0:
		add(-0.30, "year_mismatch")
	default:
		add(-0.10, "year_missing")
	}

	// Fuzzy search already matched on title text; rescoring it would
	// double-count the same signal. A missing title on either side
	// scores as zero similarity.
	if m != FuzzySearch {
		switch sim := jaccard(titleTokens(ref.Title), titleTokens(cand.Title)); {
		case sim > 0.8:
			add(0.10, "title_similar")
		case sim < 0.5:
			add(-0.20, "title_dissimilar")
		}
	}

	if len(ref.AuthorFamilies) > 0 || len(cand.AuthorFamilies) > 0 {
		overlap := jaccard(lowerSet(ref.AuthorFamilies), lowerSet(cand.AuthorFamilies))
		switch {
		case overlap > 0.5:
			add(0.10, "authors_overlap")
		case overlap < 0.2 && len(ref.AuthorFamilies) > 0 && len(cand.AuthorFamilies) > 0:
			add(-0.10, "authors_disjoint")
		}
	}

	// Volume and page agreement is only meaningful when those fields
	// were part of the query, i.e. for structured searches.
	if m == StructuredSearch {
		volMatch := ref.Volume != "" && cand.Volume != "" && ref.Volume == cand.Volume
		pageMatch := pagesMatch(ref.Pages, cand.Page)
		switch {
		case volMatch && pageMatch:
			add(0.10, "publication_details_match")
		case ref.Volume != "" && cand.Volume != "" && !volMatch:
			add(-0.20, "volume_mismatch")
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}

	return Result{Score: score, Status: statusFor(score), Factors: factors}
}

func statusFor(score float64) string {
	switch {
	case score >= 0.9:
		return StatusHigh
	case score >= 0.7:
		return StatusMedium
	case score >= 0.5:
		return StatusLow
	default:
		return StatusVeryLow
	}
}

// LastNames extracts family names from a citation author string such
// as "Smith J., Doe A.B.", taking the first token of each
// comma-separated author.
func LastNames(authors string) []string {
	var names []string
	for _, part := range strings.FieldsFunc(authors, isAuthorSep) {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := strings.Trim(fields[0], ".")
		// Bare initials are separators left over from "Last F., Last F."
		// style author lists, not family names.
		if len([]rune(name)) <= 1 {
			continue
		}
		names = append(names, strings.ToLower(name))
	}
	return names
}

func isAuthorSep(r rune) bool {
	return r == ',' || r == ';'
}

// titleTokens lowercases a title and strips punctuation, returning its
// word set.
func titleTokens(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !isAlnum(r)
		})
		if word != "" {
			set[word] = struct{}{}
		}
	}
	return set
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// jaccard computes set overlap: |A∩B| / |A∪B|. Two empty sets have
// zero similarity.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// pagesMatch compares the first page of each side.
func pagesMatch(refPages, candPage string) bool {
	rf := firstPage(refPages)
	cf := firstPage(candPage)
	return rf != "" && rf == cf
}

func firstPage(pages string) string {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return ""
	}
	if i := strings.IndexAny(pages, "-–"); i >= 0 {
		return strings.TrimSpace(pages[:i])
	}
	return pages
}
