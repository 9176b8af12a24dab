// =============================================================================
// Payout Breakdown - Report Writer
// =============================================================================
//
// This module renders the payout grouping into a report file. Two formats are
// supported:
//   - xlsx : a workbook with a "Payouts" summary sheet and a "Rows" sheet
//            holding the full breakdown (one line per classified row)
//   - csv  : the "Payouts" summary table only
//
// The report mirrors what the interactive breakdown view shows: payouts
// sorted newest first, per-category totals, and the classified rows in
// source order.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/sellertools/payout-breakdown/internal/payout"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer renders payout groupings into report files.
type Writer struct {
	format string
}

// NewWriter creates a Writer for the given format ("xlsx" or "csv").
func NewWriter(format string) *Writer {
	return &Writer{format: format}
}

// Write renders the grouping to the given path. The file extension is
// derived from the format and appended when missing.
func (w *Writer) Write(path string, groups map[string]*payout.Group) (string, error) {
	switch w.format {
	case "csv":
		path = ensureExt(path, ".csv")
		return path, w.writeCSV(path, groups)
	case "xlsx":
		path = ensureExt(path, ".xlsx")
		return path, w.writeXLSX(path, groups)
	default:
		return "", fmt.Errorf("unknown report format %q", w.format)
	}
}

// =============================================================================
// XLSX REPORT
// =============================================================================

// summaryHeader is the column layout of the "Payouts" sheet.
var summaryHeader = []interface{}{
	"Payout ID", "Date", "Currency", "Amount", "Rows",
	"Sales total", "Fees total", "Adjustments total",
}

// rowsHeader is the column layout of the "Rows" sheet.
var rowsHeader = []interface{}{
	"Payout ID", "Date", "Kind", "Type", "Order number",
	"Item title", "Description", "Net amount",
}

// writeXLSX writes the two-sheet workbook report.
func (w *Writer) writeXLSX(path string, groups map[string]*payout.Group) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Payouts"
	const rowsSheet = "Rows"

	// Rename the default sheet and add the breakdown sheet.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(rowsSheet); err != nil {
		return fmt.Errorf("failed to create rows sheet: %w", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetSheetRow(rowsSheet, "A1", &rowsHeader); err != nil {
		return fmt.Errorf("failed to write rows header: %w", err)
	}

	summaryLine := 2
	rowsLine := 2

	for _, group := range payout.Sorted(groups) {
		summary := []interface{}{
			group.PayoutID,
			group.PayoutDate,
			group.Currency,
			group.PayoutAmount,
			group.Summary.RowCount,
			group.Summary.SalesTotal,
			group.Summary.FeesTotal,
			group.Summary.AdjustmentsTotal,
		}
		cell := fmt.Sprintf("A%d", summaryLine)
		if err := f.SetSheetRow(summarySheet, cell, &summary); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		summaryLine++

		for _, row := range group.Rows {
			line := []interface{}{
				group.PayoutID,
				row.Date,
				string(row.Kind),
				row.TypeRaw,
				row.OrderNumber,
				row.ItemTitle,
				row.Description,
				row.NetAmount,
			}
			cell := fmt.Sprintf("A%d", rowsLine)
			if err := f.SetSheetRow(rowsSheet, cell, &line); err != nil {
				return fmt.Errorf("failed to write breakdown row: %w", err)
			}
			rowsLine++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// =============================================================================
// CSV REPORT
// =============================================================================

// writeCSV writes the payout summary table as CSV.
func (w *Writer) writeCSV(path string, groups map[string]*payout.Group) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(summaryHeader))
	for i, h := range summaryHeader {
		header[i] = h.(string)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, group := range payout.Sorted(groups) {
		record := []string{
			group.PayoutID,
			group.PayoutDate,
			group.Currency,
			formatAmount(group.PayoutAmount),
			strconv.Itoa(group.Summary.RowCount),
			formatAmount(group.Summary.SalesTotal),
			formatAmount(group.Summary.FeesTotal),
			formatAmount(group.Summary.AdjustmentsTotal),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	return writer.Error()
}

// formatAmount renders an amount with two decimal places for the CSV report.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ensureExt appends the extension when the path doesn't already carry it.
func ensureExt(path, ext string) string {
	if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
		return path
	}
	return path + ext
}
