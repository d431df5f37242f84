package refparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Parenthesized year at the end of the reference: "..., (2020)".
	trailingYearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)
	// Bare year token anywhere; matches 1900-2099 only.
	bareYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	// A string that is nothing but a year, optionally parenthesized.
	loneYearRe = regexp.MustCompile(`^\(?((19|20)\d{2})\)?$`)

	numericRe   = regexp.MustCompile(`^\d+$`)
	pageRangeRe = regexp.MustCompile(`^\d+-\d+$`)
	ppMarkerRe  = regexp.MustCompile(`(?i)pp\.\s*`)
)

// webDocMarker is the literal Scopus token for web references.
const webDocMarker = "[WWW Document]"

// degenerateLen is the length below which no structural parsing is
// attempted; such fragments are either a year or a title scrap.
const degenerateLen = 10

// journalPatterns are the journal-indicating patterns used to locate the
// journal part of a comma-split reference. Checked in order.
var journalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bJ\b`),    // "J Med", "Br J Surg"
	regexp.MustCompile(`(?i)\bProc\b`), // proceedings
	regexp.MustCompile(`(?i)\bNature\b`),
	regexp.MustCompile(`(?i)\bScience\b`),
	regexp.MustCompile(`(?i)\bIEEE\b`),
	regexp.MustCompile(`(?i)\bACM\b`),
	regexp.MustCompile(`(?i)\bAnn\b`),  // annals
	regexp.MustCompile(`(?i)\bArch\b`), // archives
	regexp.MustCompile(`(?i)\bBr\b.*\bJ\b`),
	regexp.MustCompile(`(?i)\bAm\b.*\bJ\b`),
	regexp.MustCompile(`(?i)\bInt\b.*\bJ\b`),
	regexp.MustCompile(`(?i)\bEur\b.*\bJ\b`),
	regexp.MustCompile(`(?i)\bSci\b.*\bRep\b`),
	regexp.MustCompile(`(?i)Surgery|Medicine|Engineering|Robotics|Manufacturing`),
	regexp.MustCompile(`(?i)Transaction|Review|Letter`),
}

// standardsVocab marks references to standards documents rather than journal
// articles. Matched by case-insensitive containment.
var standardsVocab = []string{"standard", "specification", "guideline", "terminology"}

// publisherVocab marks a part as a publisher rather than a journal in the
// positional fallback.
var publisherVocab = []string{"press", "publisher", "publishing", "springer", "elsevier", "wiley"}

// Parse maps one free-text citation string to a ParsedReference. It never
// fails: fields stay empty when extraction is inconclusive. The input is one
// reference already split off its semicolon-joined parent blob.
func Parse(raw string) ParsedReference {
	ref := ParsedReference{Raw: raw}
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return ref
	}

	// Degenerate inputs skip structural parsing entirely.
	if len(s) < degenerateLen {
		if m := loneYearRe.FindStringSubmatch(s); m != nil {
			ref.Year, _ = strconv.Atoi(m[1])
		} else {
			ref.Title = s
		}
		ref.normalize()
		return ref
	}

	s = extractYear(s, &ref)

	for _, st := range strategies {
		if st.apply(s, &ref) {
			break
		}
	}

	ref.normalize()
	return ref
}

// extractYear pulls the publication year out of s. A parenthesized year at
// the end wins and is stripped (with a trailing comma); otherwise the first
// bare year token is recorded without stripping, since it may still belong
// to a title or volume.
func extractYear(s string, ref *ParsedReference) string {
	if m := trailingYearRe.FindStringSubmatchIndex(s); m != nil {
		year, _ := strconv.Atoi(s[m[2]:m[3]])
		if year >= 1900 && year <= 2099 {
			ref.Year = year
			s = strings.TrimSpace(s[:m[0]])
			s = strings.TrimSpace(strings.TrimSuffix(s, ","))
			return s
		}
	}
	if tok := bareYearRe.FindString(s); tok != "" {
		ref.Year, _ = strconv.Atoi(tok)
	}
	return s
}
