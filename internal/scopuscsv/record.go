// Package scopuscsv reads Scopus CSV export files into typed records.
package scopuscsv

// Record is one bibliographic entry from a Scopus CSV export.
// Absent fields are empty strings; a Record is never mutated after reading.
type Record struct {
	Title           string `json:"title"`
	Authors         string `json:"authors"`           // "Smith J.; Jones A." (semicolon-delimited)
	AuthorIDs       string `json:"author_ids"`        // Scopus author IDs, semicolon-delimited
	AuthorFullNames string `json:"author_full_names"` // "Smith, John (12345); ..."
	Year            string `json:"year"`
	DOI             string `json:"doi"`
	PubMedID        string `json:"pubmed_id"`
	SourceTitle     string `json:"source_title"` // journal / container title
	Volume          string `json:"volume"`
	Issue           string `json:"issue"`
	PageStart       string `json:"page_start"`
	PageEnd         string `json:"page_end"`
	PageCount       string `json:"page_count"`
	CitedBy         string `json:"cited_by"`
	Link            string `json:"link"`
	Abstract        string `json:"abstract"`
	Affiliations    string `json:"affiliations"`
	AuthorKeywords  string `json:"author_keywords"`
	IndexKeywords   string `json:"index_keywords"`
	References      string `json:"references"` // semicolon-joined free-text citations
	FundingDetails  string `json:"funding_details"`
	DocumentType    string `json:"document_type"`
	Language        string `json:"language"`
	ISSN            string `json:"issn"`
	ISBN            string `json:"isbn"`
}

// PageRange returns "start-end", "start", or "" depending on which page
// fields are present.
func (r Record) PageRange() string {
	switch {
	case r.PageStart != "" && r.PageEnd != "":
		return r.PageStart + "-" + r.PageEnd
	case r.PageStart != "":
		return r.PageStart
	default:
		return ""
	}
}
