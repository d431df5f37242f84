// Package report renders run artifacts: data-quality exclusion reports
// in JSON, CSV, and XLSX form, and DOI enrichment summaries in JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/quality"
)

// Exclusions is one quality-screen report.
type Exclusions struct {
	RunID        string              `json:"run_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	TotalRecords int                 `json:"total_records"`
	KeptRecords  int                 `json:"kept_records"`
	Excluded     []quality.Exclusion `json:"excluded"`
}

// NewExclusions builds a report for one import run.
func NewExclusions(total int, excluded []quality.Exclusion) *Exclusions {
	return &Exclusions{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		TotalRecords: total,
		KeptRecords:  total - len(excluded),
		Excluded:     excluded,
	}
}

// WriteAll writes the report in every format into dir and returns the
// file paths.
func (r *Exclusions) WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	stamp := r.GeneratedAt.Format("20060102_150405")
	base := filepath.Join(dir, "exclusions_"+stamp)

	writers := []struct {
		path  string
		write func(string) error
	}{
		{base + ".json", r.WriteJSON},
		{base + ".csv", r.WriteCSV},
		{base + ".xlsx", r.WriteXLSX},
	}

	var paths []string
	for _, w := range writers {
		if err := w.write(w.path); err != nil {
			return nil, err
		}
		paths = append(paths, w.path)
	}
	return paths, nil
}

// WriteJSON writes the full report, including per-record reasons.
func (r *Exclusions) WriteJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding exclusion report: %w", err)
	}
	return nil
}

var exclusionHeaders = []string{"Row", "Title", "Authors", "Year", "DOI", "Reasons"}

func (r *Exclusions) rows() [][]string {
	rows := make([][]string, 0, len(r.Excluded))
	for _, e := range r.Excluded {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Row),
			e.Record.Title,
			e.Record.Authors,
			e.Record.Year,
			e.Record.DOI,
			strings.Join(e.Reasons, "; "),
		})
	}
	return rows
}

// WriteCSV writes a flat spreadsheet-friendly view.
func (r *Exclusions) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(exclusionHeaders); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range r.rows() {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes a styled workbook for manual review.
func (r *Exclusions) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Excluded Records"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#B02A2A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, header := range exclusionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range r.rows() {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	widths := []float64{8, 48, 32, 8, 24, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	f.SetActiveSheet(index)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
