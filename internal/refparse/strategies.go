package refparse

import "strings"

// strategy is one rung of the parser's fallback ladder. apply reports
// whether the strategy handled the string; the first handler wins, so the
// order of the strategies slice is load-bearing.
type strategy struct {
	name  string
	apply func(s string, ref *ParsedReference) bool
}

// strategies run after year extraction, in this exact order. Reordering
// changes which field absorbs ambiguous tokens.
var strategies = []strategy{
	{"web_document", parseWebDocument},
	{"no_comma", parseNoComma},
	{"comma_decomposition", parseCommaParts},
}

// parseWebDocument handles web references marked with the literal
// "[WWW Document]" token: everything before the marker is the title.
func parseWebDocument(s string, ref *ParsedReference) bool {
	idx := strings.Index(s, webDocMarker)
	if idx < 0 {
		return false
	}
	ref.Title = s[:idx]
	ref.Journal = JournalWebDocument
	return true
}

// parseNoComma handles references with no comma left after year
// extraction: a single unit that is either a standards document or a bare
// title fragment.
func parseNoComma(s string, ref *ParsedReference) bool {
	if strings.Contains(s, ",") {
		return false
	}
	if containsStandardsVocab(s) {
		ref.Title = s
		ref.Journal = JournalStandardDocument
		return true
	}
	if len(strings.Fields(s)) >= 3 {
		ref.Title = s
	}
	return true
}

// parseCommaParts decomposes a comma-delimited reference into authors,
// title, journal, volume, issue, and pages.
func parseCommaParts(s string, ref *ParsedReference) bool {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	switch len(parts) {
	case 0:
		return true
	case 1:
		// A lone part (stray trailing comma). Substantial text reads as a
		// title, anything shorter as an author fragment.
		if len(parts[0]) > 10 {
			ref.Title = parts[0]
		} else {
			ref.Authors = parts[0]
		}
		return true
	}

	if containsStandardsVocab(strings.Join(parts, ", ")) {
		ref.Title = strings.Join(parts[:len(parts)-1], ", ")
		ref.Journal = JournalStandard
		if last := parts[len(parts)-1]; numericRe.MatchString(last) {
			ref.Volume = last
		}
		return true
	}

	journalIdx := findJournalIndex(parts)
	if journalIdx < 0 {
		journalIdx = positionalJournalIndex(parts)
	}

	if journalIdx >= 2 {
		ref.Authors = parts[0]
		ref.Title = strings.Join(parts[1:journalIdx], ", ")
		ref.Journal = parts[journalIdx]
		scanTail(parts[journalIdx+1:], ref)
		return true
	}

	// Journal position unresolved: assume author, title, then classify the
	// third part as publisher/book marker or literal journal.
	switch {
	case len(parts) >= 3:
		ref.Authors = parts[0]
		ref.Title = parts[1]
		if isBookMarker(parts[2]) {
			ref.Journal = JournalBook
		} else {
			ref.Journal = parts[2]
		}
		scanTail(parts[3:], ref)
	default: // exactly two parts
		ref.Authors = parts[0]
		ref.Title = parts[1]
		ref.Journal = JournalBook
	}
	return true
}

// findJournalIndex scans parts from index 1 for journal-indicating patterns,
// skipping numeric and page-shaped parts. Returns -1 when nothing matches.
func findJournalIndex(parts []string) int {
	for i := 1; i < len(parts); i++ {
		if isNumericPart(parts[i]) {
			continue
		}
		for _, re := range journalPatterns {
			if re.MatchString(parts[i]) {
				return i
			}
		}
	}
	return -1
}

// positionalJournalIndex is the fallback when no pattern matched: the
// journal is the first part at index 2-4 that is non-numeric, not a page
// range, and either short enough to be an abbreviation or multi-word.
// Candidates are checked in ascending index order; "short" and "multi-word"
// are alternatives, not ranked against each other.
func positionalJournalIndex(parts []string) int {
	for i := 2; i < len(parts) && i <= 4; i++ {
		p := parts[i]
		if isNumericPart(p) {
			continue
		}
		if len(p) <= 15 || len(strings.Fields(p)) >= 2 {
			return i
		}
	}
	return -1
}

// scanTail assigns volume, issue, and pages from the parts after the
// journal. Order of rules matters: an explicit "pp." marker always wins for
// pages, bare ranges fill pages only once, and the first two standalone
// numbers become volume then issue.
func scanTail(parts []string, ref *ParsedReference) {
	for _, p := range parts {
		switch {
		case ppMarkerRe.MatchString(p):
			ref.Pages = ppMarkerRe.ReplaceAllString(p, "")
		case pageRangeRe.MatchString(p) && ref.Pages == "":
			ref.Pages = p
		case numericRe.MatchString(p) && ref.Volume == "":
			ref.Volume = p
		case numericRe.MatchString(p) && ref.Issue == "":
			ref.Issue = p
		}
	}
}

// isNumericPart reports whether a part is volume/issue/page-shaped data that
// can never be a journal name.
func isNumericPart(p string) bool {
	return numericRe.MatchString(p) || pageRangeRe.MatchString(p) || ppMarkerRe.MatchString(p)
}

func containsStandardsVocab(s string) bool {
	low := strings.ToLower(s)
	for _, w := range standardsVocab {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

// isBookMarker reports whether the part after author+title looks like book
// or publisher metadata rather than a journal name: purely numeric, very
// short, or publisher vocabulary.
func isBookMarker(p string) bool {
	if numericRe.MatchString(p) || len(p) <= 6 {
		return true
	}
	low := strings.ToLower(p)
	for _, w := range publisherVocab {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}
