// Package refparse extracts structured fields from free-text citation
// strings found in Scopus reference blobs.
package refparse

import "strings"

// Sentinel journal values assigned when a reference is classified but the
// source text carries no literal journal name.
const (
	JournalWebDocument      = "Web Document"
	JournalStandardDocument = "Standard/Document"
	JournalStandard         = "Standard"
	JournalBook             = "Book/Monograph"
)

// ParsedReference is the structured decomposition of one free-text citation.
// Absent string fields are ""; an absent year is 0. Every populated field is
// whitespace-normalized and punctuation-trimmed.
type ParsedReference struct {
	Raw     string `json:"raw"`
	Authors string `json:"authors,omitempty"`
	Title   string `json:"title,omitempty"`
	Journal string `json:"journal,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Issue   string `json:"issue,omitempty"`
	Pages   string `json:"pages,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// normalize collapses internal whitespace runs and trims stray delimiter
// punctuation from every populated field. Periods are kept so author
// initials ("Smith J.") survive.
func (p *ParsedReference) normalize() {
	for _, f := range []*string{&p.Authors, &p.Title, &p.Journal, &p.Volume, &p.Issue, &p.Pages} {
		*f = cleanField(*f)
	}
}

func cleanField(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " ,;:")
}
