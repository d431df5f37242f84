package scopuscsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "\uFEFFAuthors,Author(s) ID,Title,Year,Source title,Volume,Issue,Page start,Page end,DOI,PubMed ID,Abstract,Affiliations,References\n" +
	`"Smith J.; Jones A.","5719;5720","Additive manufacturing of lattice structures",2021,"Nature",591,7849,45,52,10.1038/test,33456789,"An abstract.","MIT, Cambridge, United States","Brown R, Older work, Science, 12, (1999); Lee K, Another work, 2001"` + "\n" +
	",,,,,,,,,,,,,\n"

func TestRead_BOMHeader(t *testing.T) {
	records, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Read() returned %d records, want 1 (empty row skipped)", len(records))
	}

	r := records[0]
	if r.Authors != "Smith J.; Jones A." {
		t.Errorf("Authors = %q", r.Authors)
	}
	if r.Title != "Additive manufacturing of lattice structures" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Year != "2021" {
		t.Errorf("Year = %q", r.Year)
	}
	if r.DOI != "10.1038/test" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.PubMedID != "33456789" {
		t.Errorf("PubMedID = %q", r.PubMedID)
	}
	if r.SourceTitle != "Nature" {
		t.Errorf("SourceTitle = %q", r.SourceTitle)
	}
}

func TestRead_EmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("Read() expected error for empty input")
	}
}

func TestFieldIndex_Synonyms(t *testing.T) {
	tests := []struct {
		name      string
		header    []string
		canonical string
		wantCol   int
	}{
		{"exact match", []string{"Title", "Year"}, FieldTitle, 0},
		{"synonym variant", []string{"Article Title", "Year"}, FieldTitle, 0},
		{"case-insensitive variant", []string{"article title", "Year"}, FieldTitle, 0},
		{"author IDs variant", []string{"Authors", "Author IDs"}, FieldAuthorIDs, 1},
		{"pubmed variant", []string{"Title", "PMID"}, FieldPubMedID, 1},
		{"substring containment", []string{"Document Year"}, FieldYear, 0},
		{"missing column", []string{"Title"}, FieldDOI, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi := NewFieldIndex(tt.header)
			if got := fi.Lookup(tt.canonical); got != tt.wantCol {
				t.Errorf("Lookup(%q) = %d, want %d", tt.canonical, got, tt.wantCol)
			}
		})
	}
}

func TestFieldIndex_ValueOutOfRange(t *testing.T) {
	fi := NewFieldIndex([]string{"Title", "Year"})
	// Row shorter than header must not panic.
	if got := fi.Value([]string{"only title"}, FieldYear); got != "" {
		t.Errorf("Value() = %q, want empty", got)
	}
}

func TestPageRange(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"both pages", Record{PageStart: "100", PageEnd: "110"}, "100-110"},
		{"start only", Record{PageStart: "100"}, "100"},
		{"none", Record{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.PageRange(); got != tt.want {
				t.Errorf("PageRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitMultiValue(t *testing.T) {
	got := SplitMultiValue(" Smith J.;  ; Jones A. ")
	if len(got) != 2 || got[0] != "Smith J." || got[1] != "Jones A." {
		t.Errorf("SplitMultiValue() = %v", got)
	}
	if SplitMultiValue("  ") != nil {
		t.Error("SplitMultiValue(blank) should be nil")
	}
}

func TestFindExportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scopus_a.csv", "scopus_b.csv", "~temp.csv", ".hidden.csv", "data_exclusions.csv", "old_backup.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("Title\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindExportFiles(dir)
	if err != nil {
		t.Fatalf("FindExportFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("FindExportFiles() = %v, want 2 files", files)
	}
	if filepath.Base(files[0]) != "scopus_a.csv" || filepath.Base(files[1]) != "scopus_b.csv" {
		t.Errorf("FindExportFiles() = %v", files)
	}
}

func TestFindExportFiles_RawScopusSubdir(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw_scopus")
	if err := os.Mkdir(raw, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(raw, "export.csv"), []byte("Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.csv"), []byte("Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := FindExportFiles(dir)
	if err != nil {
		t.Fatalf("FindExportFiles() error = %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "export.csv" {
		t.Errorf("FindExportFiles() = %v, want raw_scopus/export.csv only", files)
	}
}
