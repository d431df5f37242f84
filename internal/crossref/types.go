package crossref

import "strings"

// Work is a single work record from the CrossRef REST API. Only the
// fields consumed by DOI recovery are mapped.
type Work struct {
	DOI            string       `json:"DOI"`
	Title          []string     `json:"title"`
	ContainerTitle []string     `json:"container-title"`
	Author         []WorkAuthor `json:"author"`
	Published      DateParts    `json:"published"`
	Issued         DateParts    `json:"issued"`
	Volume         string       `json:"volume"`
	Issue          string       `json:"issue"`
	Page           string       `json:"page"`
}

// WorkAuthor is one contributor on a work.
type WorkAuthor struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

// DateParts is CrossRef's nested date representation, e.g.
// {"date-parts": [[2019, 4, 12]]}.
type DateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component, or 0 when absent.
func (d DateParts) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// PrimaryTitle returns the first title string, or "".
func (w Work) PrimaryTitle() string {
	if len(w.Title) == 0 {
		return ""
	}
	return w.Title[0]
}

// Year returns the publication year, preferring "published" over
// "issued", or 0 when neither is present.
func (w Work) Year() int {
	if y := w.Published.Year(); y != 0 {
		return y
	}
	return w.Issued.Year()
}

// AuthorFamilies returns the lowercased family names of all authors.
func (w Work) AuthorFamilies() []string {
	names := make([]string, 0, len(w.Author))
	for _, a := range w.Author {
		if a.Family == "" {
			continue
		}
		names = append(names, strings.ToLower(a.Family))
	}
	return names
}

// worksMessage is the envelope around a /works list response.
type worksMessage struct {
	Message struct {
		Items []Work `json:"items"`
	} `json:"message"`
}
