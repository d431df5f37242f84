package store

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// canonicalizeAuthorName reduces a name to a sorted, lowercased,
// punctuation-free token list so "Smith, John" and "John Smith"
// collapse to the same key.
func canonicalizeAuthorName(name string) string {
	parts := strings.Fields(strings.ToLower(stripPunct(name)))
	if len(parts) >= 2 {
		sort.Strings(parts)
	}
	return strings.Join(parts, " ")
}

// stripNameID removes the trailing Scopus ID from an "Author full
// names" entry like "Smith, John (57190000000)".
func stripNameID(fullName string) string {
	if i := strings.Index(fullName, "("); i >= 0 {
		fullName = fullName[:i]
	}
	return strings.TrimSpace(fullName)
}

var institutionKeywords = []string{"university", "institute", "college", "school"}

// extractInstitutionName picks the institution out of a full
// affiliation string such as "Dept. of Surgery, Example University,
// Exampletown, Country".
func extractInstitutionName(affiliation string) string {
	affiliation = strings.TrimSpace(affiliation)
	if affiliation == "" {
		return ""
	}

	parts := strings.Split(affiliation, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		for _, kw := range institutionKeywords {
			if strings.Contains(lower, kw) {
				return part
			}
		}
	}

	if first := strings.TrimSpace(parts[0]); len(first) > 3 {
		return first
	}
	return affiliation
}

// extractCountry takes the trailing affiliation segment as the country
// when it looks like one: a single alphabetic word of plausible length.
func extractCountry(affiliation string) string {
	parts := strings.Split(affiliation, ",")
	if len(parts) < 2 {
		return ""
	}
	candidate := strings.TrimSpace(parts[len(parts)-1])
	n := len([]rune(candidate))
	if n < 2 || n > 20 {
		return ""
	}
	for _, r := range candidate {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return candidate
}

// normalizeKeyword lowercases, strips punctuation, and collapses
// whitespace so "Machine-Learning" and "machine learning" share one
// master entry.
func normalizeKeyword(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(stripPunct(keyword))), " ")
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
}

// grantNumberRe matches grant identifiers inside a funding entry:
// agency-style codes ("NIH R01-123456"), explicit "Grant #" markers,
// and bare long numbers.
var grantNumberRe = regexp.MustCompile(`[A-Z]{2,}\s*[-\d]+|Grant\s*[#:]?\s*[\w-]+|\d{4,}`)

var trailingSepRe = regexp.MustCompile(`[,;]+$`)

// parseFundingEntry splits one funding detail into the agency name and
// any grant numbers embedded in it. Entries too short to be a real
// agency name yield "".
func parseFundingEntry(entry string) (agency string, grants []string) {
	agency = entry
	grants = grantNumberRe.FindAllString(entry, -1)
	for _, g := range grants {
		agency = strings.Replace(agency, g, "", 1)
	}
	agency = strings.TrimSpace(trailingSepRe.ReplaceAllString(strings.TrimSpace(agency), ""))
	if len(agency) <= 3 {
		return "", nil
	}
	return agency, grants
}
