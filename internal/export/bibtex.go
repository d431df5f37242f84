// Package export renders database papers in BibTeX format.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/store"
)

// ToBibTeX converts one paper to a BibTeX entry under the given cite key.
func ToBibTeX(key string, e store.BibEntry) string {
	entryType := determineEntryType(e)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))

	if e.Authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(e.Authors)))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(e.Title)))

	if e.SourceTitle != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(e.SourceTitle)))
	}
	if e.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", e.Year))
	}
	if e.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", escapeLatex(e.Volume)))
	}
	if e.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", escapeLatex(e.Issue)))
	}
	if pages := formatPages(e); pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", pages))
	}
	if e.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", e.DOI))
	}
	if e.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(e.Abstract)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple papers to BibTeX. Cite keys are derived
// from the first author and year; colliding keys get a/b/c suffixes in
// entry order.
func ToBibTeXList(entries []store.BibEntry) string {
	seen := make(map[string]int)
	var parts []string
	for _, e := range entries {
		key := CiteKey(e)
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			key = fmt.Sprintf("%s%c", key, 'a'+rune(n-1))
		} else {
			seen[key] = 1
		}
		parts = append(parts, ToBibTeX(key, e))
	}
	return strings.Join(parts, "\n")
}

// CiteKey builds a "smith2020"-style key from the first author's family
// name and the year, falling back to the paper ID when either is missing.
func CiteKey(e store.BibEntry) string {
	family := ""
	if names := splitAuthors(e.Authors); len(names) > 0 {
		family = familyName(names[0])
	}
	if family == "" || e.Year == 0 {
		return fmt.Sprintf("paper%d", e.PaperID)
	}
	return fmt.Sprintf("%s%d", family, e.Year)
}

// determineEntryType maps the Scopus document type onto a BibTeX entry
// type, falling back to venue keywords when the type is absent.
func determineEntryType(e store.BibEntry) string {
	switch strings.ToLower(e.DocumentType) {
	case "conference paper":
		return "inproceedings"
	case "book":
		return "book"
	case "book chapter":
		return "incollection"
	}

	venue := strings.ToLower(e.SourceTitle)
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// formatAuthors turns a semicolon-delimited "Smith J.; Doe A.B." author
// string into BibTeX's "Smith J. and Doe A.B." form.
func formatAuthors(authors string) string {
	return escapeLatex(strings.Join(splitAuthors(authors), " and "))
}

func formatPages(e store.BibEntry) string {
	switch {
	case e.PageStart != "" && e.PageEnd != "":
		return fmt.Sprintf("%s--%s", e.PageStart, e.PageEnd)
	case e.PageStart != "":
		return e.PageStart
	default:
		return ""
	}
}

func splitAuthors(authors string) []string {
	var names []string
	for _, part := range strings.Split(authors, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// familyName extracts a lowercased letters-only surname from one
// "Smith J.A." style name.
func familyName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range fields[0] {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
