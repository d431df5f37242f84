// Package integration provides integration tests for scopusdb commands.
package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	sdbBinary     string
	sdbBinaryOnce sync.Once
	sdbBinaryErr  error
)

// getBinary builds the scopusdb binary once and returns its path.
func getBinary(t *testing.T) string {
	t.Helper()
	sdbBinaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			sdbBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "scopusdb-test-*")
		if err != nil {
			sdbBinaryErr = err
			return
		}
		sdbBinary = filepath.Join(tmpDir, "scopusdb")

		cmd := exec.Command("go", "build", "-o", sdbBinary, "./cmd/scopusdb")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			sdbBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if sdbBinaryErr != nil {
		t.Fatalf("failed to build scopusdb: %v", sdbBinaryErr)
	}
	return sdbBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// writeExportCSV writes a minimal Scopus export with the given rows.
func writeExportCSV(t *testing.T, dir string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, "scopus.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating CSV: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Authors", "Author(s) ID", "Title", "Year", "Source title",
		"DOI", "Affiliations", "Abstract"}
	if err := w.Write(header); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flushing CSV: %v", err)
	}
	return path
}

func TestCreateThenStats(t *testing.T) {
	bin := getBinary(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "scopus.db")

	csvPath := writeExportCSV(t, dir, [][]string{
		{"Smith J.; Doe A.", "111; 222", "A study of X", "2020", "Nature",
			"10.1038/test.1", "Department of Testing, University of Testing, Wonderland",
			"We study X."},
		{"Lee K.", "333", "Another study", "2021", "Science",
			"", "Institute of Things, Freedonia", "We study Y."},
		{"Poe E.", "444", "An incomplete record", "2019", "Nature",
			"", "Somewhere University, Atlantis", ""},
	})

	cmd := exec.Command(bin, "create", csvPath, "--db", dbPath, "--no-reports")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("create failed: %v\n%s", err, out)
	}

	var created struct {
		Database     string `json:"database"`
		TotalRecords int    `json:"total_records"`
		Excluded     int    `json:"excluded"`
		Imported     struct {
			Papers  int `json:"papers"`
			Authors int `json:"authors"`
		} `json:"imported"`
	}
	if err := json.Unmarshal(out, &created); err != nil {
		t.Fatalf("parsing create output: %v\n%s", err, out)
	}
	if created.TotalRecords != 3 {
		t.Errorf("total_records = %d, want 3", created.TotalRecords)
	}
	if created.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", created.Excluded)
	}
	if created.Imported.Papers != 2 {
		t.Errorf("imported.papers = %d, want 2", created.Imported.Papers)
	}
	if created.Imported.Authors != 3 {
		t.Errorf("imported.authors = %d, want 3", created.Imported.Authors)
	}

	cmd = exec.Command(bin, "stats", "--db", dbPath)
	cmd.Dir = dir
	out, err = cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, out)
	}

	var stats struct {
		Counts struct {
			Papers     int `json:"papers"`
			Authors    int `json:"authors"`
			MissingDOI int `json:"missing_doi"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(out, &stats); err != nil {
		t.Fatalf("parsing stats output: %v\n%s", err, out)
	}
	if stats.Counts.Papers != 2 {
		t.Errorf("counts.papers = %d, want 2", stats.Counts.Papers)
	}
	if stats.Counts.Authors != 3 {
		t.Errorf("counts.authors = %d, want 3", stats.Counts.Authors)
	}
	if stats.Counts.MissingDOI != 1 {
		t.Errorf("counts.missing_doi = %d, want 1", stats.Counts.MissingDOI)
	}
}

func TestCreateFailsWhenAllExcluded(t *testing.T) {
	bin := getBinary(t)
	dir := t.TempDir()

	csvPath := writeExportCSV(t, dir, [][]string{
		{"Poe E.", "444", "An incomplete record", "2019", "Nature",
			"", "Somewhere University, Atlantis", ""},
	})

	cmd := exec.Command(bin, "create", csvPath, "--db", filepath.Join(dir, "x.db"), "--no-reports")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("create succeeded on all-excluded input:\n%s", out)
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("create failed without exit code: %v", err)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.ExitCode())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("parsing error output: %v\n%s", err, out)
	}
	if resp.Error == "" {
		t.Error("error response has no message")
	}
}

func TestParseRef(t *testing.T) {
	bin := getBinary(t)

	out, err := exec.Command(bin, "parse-ref",
		"Smith J, A study of X, Nature, 45, 2, pp. 100-110, (2020)").CombinedOutput()
	if err != nil {
		t.Fatalf("parse-ref failed: %v\n%s", err, out)
	}

	var parsed []struct {
		Authors string `json:"authors"`
		Title   string `json:"title"`
		Journal string `json:"journal"`
		Volume  string `json:"volume"`
		Pages   string `json:"pages"`
		Year    int    `json:"year"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(parsed) != 1 {
		t.Fatalf("parsed %d references, want 1", len(parsed))
	}
	got := parsed[0]
	if got.Journal != "Nature" || got.Volume != "45" || got.Pages != "100-110" || got.Year != 2020 {
		t.Errorf("unexpected parse: %+v", got)
	}
}
