package refparse

import (
	"reflect"
	"testing"
)

func TestParse_JournalArticle(t *testing.T) {
	got := Parse("Smith J, A study of X, Nature, 45, 2, pp. 100-110, (2020)")

	want := ParsedReference{
		Raw:     "Smith J, A study of X, Nature, 45, 2, pp. 100-110, (2020)",
		Authors: "Smith J",
		Title:   "A study of X",
		Journal: "Nature",
		Volume:  "45",
		Issue:   "2",
		Pages:   "100-110",
		Year:    2020,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_StandardsDocument(t *testing.T) {
	got := Parse("ISO 9001 Standard, 9001, (2015)")

	if got.Title != "ISO 9001 Standard" {
		t.Errorf("Title = %q, want %q", got.Title, "ISO 9001 Standard")
	}
	if got.Journal != JournalStandard {
		t.Errorf("Journal = %q, want %q", got.Journal, JournalStandard)
	}
	if got.Volume != "9001" {
		t.Errorf("Volume = %q, want %q", got.Volume, "9001")
	}
	if got.Year != 2015 {
		t.Errorf("Year = %d, want 2015", got.Year)
	}
}

func TestParse_WebDocument(t *testing.T) {
	got := Parse("Some Title [WWW Document], (2019)")

	if got.Title != "Some Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Some Title")
	}
	if got.Journal != JournalWebDocument {
		t.Errorf("Journal = %q, want %q", got.Journal, JournalWebDocument)
	}
	if got.Year != 2019 {
		t.Errorf("Year = %d, want 2019", got.Year)
	}
	if got.Authors != "" || got.Volume != "" || got.Pages != "" {
		t.Errorf("web document must not get structural fields: %+v", got)
	}
}

func TestParse_YearExtraction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantYear int
	}{
		{"parenthesized at end", "Author A, Some title, J Biol, (1999)", 1999},
		{"bare year not stripped", "Author A wrote this around 1987 somewhere", 1987},
		{"out of range ignored", "Author A, Ancient text, (1850)", 0},
		{"lone year", "2020", 2020},
		{"lone parenthesized year", "(2020)", 2020},
		{"no year", "Author A, Title only, Journal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got.Year != tt.wantYear {
				t.Errorf("Parse(%q).Year = %d, want %d", tt.input, got.Year, tt.wantYear)
			}
		})
	}
}

func TestParse_NoComma(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantTitle   string
		wantJournal string
	}{
		{"standards vocabulary", "IEC 62304 software lifecycle specification (2006)", "IEC 62304 software lifecycle specification", JournalStandardDocument},
		{"plain multi-word title", "Robotics in modern manufacturing plants", "Robotics in modern manufacturing plants", ""},
		{"two tokens only", "Brief fragment", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Journal != tt.wantJournal {
				t.Errorf("Journal = %q, want %q", got.Journal, tt.wantJournal)
			}
		})
	}
}

func TestParse_JournalPatternScan(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantJournal string
		wantTitle   string
	}{
		{
			"abbreviated journal",
			"Jones A, Outcomes after repair, Br J Surg, 88, pp. 1-7, (2001)",
			"Br J Surg",
			"Outcomes after repair",
		},
		{
			"IEEE venue",
			"Chen L, Path planning study, IEEE Robotics Letters, 5, 3, (2019)",
			"IEEE Robotics Letters",
			"Path planning study",
		},
		{
			"multi-part title absorbed before journal",
			"Doe J, Part one, part two of title, Proc Natl Acad Sci, 99, (2002)",
			"Proc Natl Acad Sci",
			"Part one, part two of title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Journal != tt.wantJournal {
				t.Errorf("Journal = %q, want %q", got.Journal, tt.wantJournal)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestParse_PositionalFallback(t *testing.T) {
	// No journal pattern matches; index 2 is short, so it is taken as the
	// journal by position.
	got := Parse("Kumar S, An unusual case report, Acta Res, 12, 4, pp. 33-40, (2018)")
	if got.Journal != "Acta Res" {
		t.Errorf("Journal = %q, want %q", got.Journal, "Acta Res")
	}
	if got.Authors != "Kumar S" {
		t.Errorf("Authors = %q", got.Authors)
	}
	if got.Volume != "12" || got.Issue != "4" || got.Pages != "33-40" {
		t.Errorf("volume/issue/pages = %q/%q/%q", got.Volume, got.Issue, got.Pages)
	}
}

func TestParse_BookFallback(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantJournal string
	}{
		{"two parts", "Author B, Just a book title here, (1995)", JournalBook},
		{"numeric edition marker", "Author B, Handbook of design, 2, (2003)", JournalBook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Journal != tt.wantJournal {
				t.Errorf("Journal = %q, want %q", got.Journal, tt.wantJournal)
			}
		})
	}
}

func TestParse_Totality(t *testing.T) {
	// Pathological inputs must produce a well-formed result, never a panic.
	inputs := []string{
		"",
		" ",
		",",
		",,,,,,",
		";;;",
		"...",
		"a",
		"(((((",
		"1234567890123",
		"pp. pp. pp.",
		"    \t\n   ",
	}

	for _, in := range inputs {
		got := Parse(in)
		if got.Raw != in {
			t.Errorf("Parse(%q).Raw = %q", in, got.Raw)
		}
		for _, f := range []string{got.Authors, got.Title, got.Journal, got.Volume, got.Issue, got.Pages} {
			if f != "" && f != cleanField(f) {
				t.Errorf("Parse(%q) produced unnormalized field %q", in, f)
			}
		}
	}
}

func TestParse_Idempotent(t *testing.T) {
	input := "Smith J, A study of X, Nature, 45, 2, pp. 100-110, (2020)"
	first := Parse(input)
	second := Parse(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse() not deterministic: %+v vs %+v", first, second)
	}
}

func TestParse_WhitespaceNormalization(t *testing.T) {
	got := Parse("Smith   J,  A   study	of X, Nature, (2020)")
	if got.Authors != "Smith J" {
		t.Errorf("Authors = %q, want %q", got.Authors, "Smith J")
	}
	if got.Title != "A study of X" {
		t.Errorf("Title = %q, want %q", got.Title, "A study of X")
	}
}
