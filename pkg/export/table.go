// Package export writes aggregated statistics as tables and charts.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the statistics in xlsx output.
const SheetName = "Stats"

// TableBaseName is the file stem of the tabular output.
const TableBaseName = "category_monthly_stats"

var ErrNoData = errors.New("no statistics to export")

// Header is the column order of the tabular output.
func Header() []string {
	header := []string{"month", "category"}
	for _, m := range models.Metrics {
		header = append(header, string(m))
	}
	return header
}

// TablePath returns the output path for the given directory and format.
func TablePath(dir, format string) string {
	return filepath.Join(dir, TableBaseName+"."+format)
}

// WriteTable writes one row per (month, category) pair sorted by month
// then category, replacing any existing file.
func WriteTable(stats models.MonthlyStats, path, format string) error {
	switch format {
	case models.FormatXLSX:
		return writeXLSX(stats, path)
	case models.FormatCSV:
		return writeCSV(stats, path)
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidFormat, format)
	}
}

func writeCSV(stats models.MonthlyStats, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(Header()); err != nil {
		return err
	}
	for _, row := range stats.Rows() {
		record := []string{row.Month, row.Category}
		for _, m := range models.Metrics {
			record = append(record, formatFloat(row.Stats.Value(m)))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func writeXLSX(stats models.MonthlyStats, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for i, h := range Header() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}

	for r, row := range stats.Rows() {
		values := []interface{}{row.Month, row.Category}
		for _, m := range models.Metrics {
			values = append(values, row.Stats.Value(m))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
