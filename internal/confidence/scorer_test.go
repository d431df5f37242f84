package confidence

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreClampsToOne(t *testing.T) {
	ref := Reference{
		Title:          "Deep learning for robotic surgery",
		AuthorFamilies: []string{"smith", "jones"},
		Year:           2019,
	}
	cand := Candidate{
		Title:          "Deep Learning for Robotic Surgery",
		AuthorFamilies: []string{"Smith", "Jones"},
		Year:           2019,
	}

	res := Score(IDLookup, ref, cand)
	if !almostEqual(res.Score, 1.0) {
		t.Errorf("score = %v, want 1.0", res.Score)
	}
	if res.Status != StatusHigh {
		t.Errorf("status = %q, want %q", res.Status, StatusHigh)
	}
}

func TestScorePenaltiesStack(t *testing.T) {
	// Structured base 0.85, year mismatch -0.30, titles absent -0.20,
	// volume mismatch -0.20.
	ref := Reference{Year: 1990, Volume: "10"}
	cand := Candidate{Year: 1999, Volume: "12"}

	res := Score(StructuredSearch, ref, cand)
	if !almostEqual(res.Score, 0.15) {
		t.Errorf("score = %v, want 0.15", res.Score)
	}
	if res.Status != StatusVeryLow {
		t.Errorf("status = %q, want %q", res.Status, StatusVeryLow)
	}
}

func TestScoreFuzzySkipsTitle(t *testing.T) {
	ref := Reference{Title: "Completely different words here", Year: 2010}
	cand := Candidate{Title: "Another unrelated candidate title", Year: 2010}

	res := Score(FuzzySearch, ref, cand)
	if !almostEqual(res.Score, 0.80) {
		t.Errorf("score = %v, want 0.80 (0.70 base + year match)", res.Score)
	}
	for _, f := range res.Factors {
		if strings.Contains(f, "title") {
			t.Errorf("fuzzy scoring produced title factor %q", f)
		}
	}
}

func TestScoreYearAdjustments(t *testing.T) {
	// Titles are chosen in the neutral similarity band (0.5..0.8) so
	// only the year factor moves the score: any unequal pair costs
	// -0.30, a missing year on either side costs -0.10.
	tests := []struct {
		name      string
		refYear   int
		candYear  int
		wantScore float64
	}{
		{"exact", 2000, 2000, 0.95 + 0.10},
		{"off by one", 2000, 2001, 0.95 - 0.30},
		{"far off", 2000, 2005, 0.95 - 0.30},
		{"reference year unknown", 0, 2005, 0.95 - 0.10},
		{"candidate year unknown", 2000, 0, 0.95 - 0.10},
		{"both unknown", 0, 0, 0.95 - 0.10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Reference{Title: "Adaptive control of flexible manipulators", Year: tt.refYear}
			cand := Candidate{Title: "Adaptive control of rigid manipulators", Year: tt.candYear}
			res := Score(IDLookup, ref, cand)
			if !almostEqual(res.Score, math.Min(tt.wantScore, 1.0)) {
				t.Errorf("score = %v, want %v", res.Score, tt.wantScore)
			}
		})
	}

	res := Score(IDLookup, Reference{Title: "x"}, Candidate{Title: "x", Year: 2005})
	if !containsFactor(res.Factors, "year_missing") {
		t.Errorf("factors = %v, want year_missing", res.Factors)
	}
}

func containsFactor(factors []string, name string) bool {
	for _, f := range factors {
		if strings.Contains(f, name) {
			return true
		}
	}
	return false
}

func TestScoreTitleSimilarity(t *testing.T) {
	// Years are absent throughout, so every score carries the -0.10
	// missing-year adjustment on top of the 0.95 base.
	base := Reference{Title: "Adaptive control of flexible manipulators"}

	similar := Candidate{Title: "Adaptive Control of Flexible Manipulators."}
	if res := Score(IDLookup, base, similar); !almostEqual(res.Score, 0.95) {
		t.Errorf("similar title score = %v, want 0.95", res.Score)
	}

	dissimilar := Candidate{Title: "Quantum chemistry of organic dyes"}
	if res := Score(IDLookup, base, dissimilar); !almostEqual(res.Score, 0.65) {
		t.Errorf("dissimilar title score = %v, want 0.65", res.Score)
	}

	neutral := Candidate{Title: "Adaptive control of rigid manipulators"}
	if res := Score(IDLookup, base, neutral); !almostEqual(res.Score, 0.85) {
		t.Errorf("neutral title score = %v, want 0.85", res.Score)
	}

	// A missing title on either side counts as zero similarity, not as
	// an absent signal.
	missing := Candidate{}
	res := Score(IDLookup, base, missing)
	if !almostEqual(res.Score, 0.65) {
		t.Errorf("missing title score = %v, want 0.65", res.Score)
	}
	if !containsFactor(res.Factors, "title_dissimilar") {
		t.Errorf("factors = %v, want title_dissimilar", res.Factors)
	}
}

func TestScoreAuthorOverlap(t *testing.T) {
	// Years and titles are absent throughout, so every score carries
	// -0.10 (missing year) and -0.20 (zero title similarity): an
	// effective 0.65 before the author factor.
	ref := Reference{AuthorFamilies: []string{"smith", "jones"}}

	overlap := Candidate{AuthorFamilies: []string{"Smith", "Jones", "Lee"}}
	if res := Score(IDLookup, ref, overlap); !almostEqual(res.Score, 0.65+0.10) {
		t.Errorf("overlap score = %v", res.Score)
	}

	disjoint := Candidate{AuthorFamilies: []string{"garcía", "chen"}}
	if res := Score(IDLookup, ref, disjoint); !almostEqual(res.Score, 0.65-0.10) {
		t.Errorf("disjoint score = %v", res.Score)
	}

	// One side empty: no evidence either way.
	empty := Candidate{}
	if res := Score(IDLookup, ref, empty); !almostEqual(res.Score, 0.65) {
		t.Errorf("one-sided score = %v, want no author adjustment", res.Score)
	}
}

func TestScorePublicationDetails(t *testing.T) {
	// Years and titles are absent throughout: -0.10 and -0.20 apply on
	// top of each base before the details factor.
	ref := Reference{Volume: "12", Pages: "100-110"}

	match := Candidate{Volume: "12", Page: "100-110"}
	if res := Score(StructuredSearch, ref, match); !almostEqual(res.Score, 0.55+0.10) {
		t.Errorf("match score = %v", res.Score)
	}

	// Volume agreement alone is not enough for the bonus.
	volOnly := Candidate{Volume: "12", Page: "555-560"}
	if res := Score(StructuredSearch, ref, volOnly); !almostEqual(res.Score, 0.55) {
		t.Errorf("volume-only score = %v", res.Score)
	}

	// Details never adjust non-structured methods.
	if res := Score(IDLookup, ref, match); !almostEqual(res.Score, 0.65) {
		t.Errorf("id_lookup details score = %v, want no details adjustment", res.Score)
	}
}

func TestStatusBuckets(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, StatusHigh},
		{0.9, StatusHigh},
		{0.89, StatusMedium},
		{0.7, StatusMedium},
		{0.69, StatusLow},
		{0.5, StatusLow},
		{0.49, StatusVeryLow},
		{0.0, StatusVeryLow},
	}
	for _, tt := range tests {
		if got := statusFor(tt.score); got != tt.want {
			t.Errorf("statusFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLastNames(t *testing.T) {
	tests := []struct {
		name    string
		authors string
		want    []string
	}{
		{"initials attached", "Smith J., Doe A.B.", []string{"smith", "doe"}},
		{"initials separated", "Smith, J., Doe, A.", []string{"smith", "doe"}},
		{"semicolon delimited", "Smith J.; Doe A.", []string{"smith", "doe"}},
		{"single author", "Nakamura T.", []string{"nakamura"}},
		{"empty", "", nil},
		{"only separators", " , , ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastNames(tt.authors); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LastNames(%q) = %v, want %v", tt.authors, got, tt.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	a := titleTokens("Deep Learning: A Review!")
	b := titleTokens("deep learning a review")
	if got := jaccard(a, b); !almostEqual(got, 1.0) {
		t.Errorf("jaccard identical-after-normalization = %v, want 1.0", got)
	}
	if got := jaccard(nil, nil); got != 0 {
		t.Errorf("jaccard of empty sets = %v, want 0", got)
	}
}
