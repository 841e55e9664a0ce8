// Package workbook renders surveys and their response sheets into an Excel
// workbook. The output matches the original Hebrew reports: a summary sheet
// first, one sheet per survey, everything right-to-left and right-aligned.
package workbook

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/whiletrue-industries/yalla-negev-data/internal/report"
)

// SummarySheetName is the title of the first sheet.
const SummarySheetName = "סקרים"

// Summary sheet column headers.
var summaryHeaders = []string{"שם", "תיאור", "נוצר ב", "מספר שאלות", "מספר תגובות"}

// widthPadding is added to the longest cell when sizing a column.
const widthPadding = 2

// Filename returns the dated workbook file name, e.g. yallanegev-2024-03-15.xlsx.
func Filename(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, date.Format("2006-01-02"))
}

// Build creates the workbook: the summary sheet followed by one sheet per
// entry in sheets. Surveys without a sheet (no responses) still appear in
// the summary with a zero count.
func Build(surveys []report.Survey, sheets []report.Sheet, logger *slog.Logger) (*excelize.File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()

	// Replace the default sheet with the summary so it comes first.
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheetName); err != nil {
		return nil, fmt.Errorf("workbook: renaming summary sheet: %w", err)
	}

	if err := writeSummary(f, surveys, sheets); err != nil {
		return nil, err
	}

	titles := newTitleSet()

	for i := range sheets {
		sheet := &sheets[i]

		title := titles.claim(sheet.Title)
		if title != sheet.Title {
			logger.Warn("sheet title adjusted",
				slog.String("original", sheet.Title),
				slog.String("used", title),
			)
		}

		if _, err := f.NewSheet(title); err != nil {
			return nil, fmt.Errorf("workbook: creating sheet %q: %w", title, err)
		}

		if err := writeSheet(f, title, sheet); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	return f, nil
}

// writeSummary fills the summary sheet: one row per survey with its
// response count. Counts come from the built sheets so they reflect what
// the workbook actually contains, not raw Firestore totals.
func writeSummary(f *excelize.File, surveys []report.Survey, sheets []report.Sheet) error {
	rowCounts := make(map[string]int, len(sheets))
	for _, s := range sheets {
		rowCounts[s.Title] += len(s.Rows)
	}

	for col, h := range summaryHeaders {
		if err := setCell(f, SummarySheetName, col+1, 1, h); err != nil {
			return err
		}
	}

	for i, survey := range surveys {
		row := i + 2

		created := ""
		if !survey.CreatedAt.IsZero() {
			created = survey.CreatedAt.Format(time.RFC3339)
		}

		values := []any{
			survey.Name,
			survey.Description,
			created,
			len(survey.Questions),
			rowCounts[survey.Name],
		}
		for col, v := range values {
			if err := setCell(f, SummarySheetName, col+1, row, v); err != nil {
				return err
			}
		}
	}

	return fixSheet(f, SummarySheetName, len(summaryHeaders), len(surveys)+1)
}

// writeSheet fills one survey sheet: headers in row 1, one row per response.
func writeSheet(f *excelize.File, title string, sheet *report.Sheet) error {
	for col, h := range sheet.Headers {
		if err := setCell(f, title, col+1, 1, h); err != nil {
			return err
		}
	}

	for i, rowData := range sheet.Rows {
		row := i + 2

		for col, h := range sheet.Headers {
			if err := setCell(f, title, col+1, row, rowData[h]); err != nil {
				return err
			}
		}
	}

	return fixSheet(f, title, len(sheet.Headers), len(sheet.Rows)+1)
}

// fixSheet applies the Hebrew-report styling: right-aligned cells with RTL
// reading order, columns sized to their longest value, and a right-to-left
// sheet view.
func fixSheet(f *excelize.File, sheet string, cols, rows int) error {
	if cols < 1 || rows < 1 {
		return nil
	}

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal:   "right",
			Vertical:     "center",
			WrapText:     false,
			ReadingOrder: 2,
		},
	})
	if err != nil {
		return fmt.Errorf("workbook: creating cell style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return fmt.Errorf("workbook: computing sheet range: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("workbook: styling sheet %q: %w", sheet, err)
	}

	for col := 1; col <= cols; col++ {
		if err := sizeColumn(f, sheet, col, rows); err != nil {
			return err
		}
	}

	rtl := true
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("workbook: setting RTL view on %q: %w", sheet, err)
	}

	return nil
}

// sizeColumn sets a column's width to its longest cell value plus padding.
// Widths are measured in runes: close enough for the mixed Hebrew/Latin
// content these reports hold.
func sizeColumn(f *excelize.File, sheet string, col, rows int) error {
	maxLen := 0

	for row := 1; row <= rows; row++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("workbook: cell name for (%d,%d): %w", col, row, err)
		}

		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return fmt.Errorf("workbook: reading %s!%s: %w", sheet, cell, err)
		}

		if n := utf8.RuneCountInString(v); n > maxLen {
			maxLen = n
		}
	}

	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Errorf("workbook: column name for %d: %w", col, err)
	}

	if err := f.SetColWidth(sheet, name, name, float64(maxLen+widthPadding)); err != nil {
		return fmt.Errorf("workbook: sizing column %s on %q: %w", name, sheet, err)
	}

	return nil
}

// setCell writes a value at 1-based column/row coordinates.
func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("workbook: cell name for (%d,%d): %w", col, row, err)
	}

	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("workbook: writing %s!%s: %w", sheet, cell, err)
	}

	return nil
}
