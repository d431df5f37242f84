// Package pdfdoi pulls DOIs out of full-text PDFs so databases built
// from exports with missing identifiers can be cross-checked against a
// local paper collection.
package pdfdoi

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches 10.NNNN/suffix identifiers embedded in page text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxScanPages bounds the per-file search; publishers put the DOI on
// the first page, rarely later.
const maxScanPages = 3

// ExtractDOI searches the leading pages of a PDF for a DOI. A PDF
// without one returns "" and no error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

// Result pairs one scanned PDF with its extracted DOI.
type Result struct {
	Path string `json:"path"`
	DOI  string `json:"doi,omitempty"`
	Err  string `json:"error,omitempty"`
}

// ScanDir extracts DOIs from every PDF under dir, in stable path order.
// Unreadable files are reported per file, not as a scan failure.
func ScanDir(dir string) ([]Result, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		doi, err := ExtractDOI(p)
		res := Result{Path: p, DOI: doi}
		if err != nil {
			res.Err = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

// FindDOI returns the first plausible DOI in a block of text.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if plausibleDOI(match) {
			return match
		}
	}
	return ""
}

func plausibleDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}
