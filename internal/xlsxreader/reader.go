// =============================================================================
// Payout Breakdown - XLSX Export Reader
// =============================================================================
//
// This module reads transaction exports that were re-saved through Excel.
// Sellers frequently open the marketplace CSV in a spreadsheet and save it as
// .xlsx before handing it over; the tabular content is the same, so the
// reader renders the workbook back into CSV text and feeds it through the
// regular CSV pipeline (header locator included).
//
// SHEET SELECTION:
//   The sheet containing the anchor column names is used. If no sheet
//   matches, the first sheet is taken and the downstream header locator
//   degrades gracefully, exactly as it does for a CSV without a header line.
//
// =============================================================================

package xlsxreader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sellertools/payout-breakdown/internal/csvparser"
)

// Parse reads an .xlsx transaction export and returns the parsed record set.
// Only I/O and workbook-format failures are returned as errors; row-level
// problems degrade the same way they do for CSV input.
func Parse(filePath string, anchors []string) (*csvparser.CSVData, error) {
	text, err := ToCSVText(filePath, anchors)
	if err != nil {
		return nil, err
	}

	data := csvparser.ParseString(text, anchors)
	data.SourceFile = filePath
	return data, nil
}

// ToCSVText renders the export sheet of an .xlsx workbook as CSV text with
// every cell quoted. Quoting matters: the header locator matches anchor
// column names wrapped in double quotes.
func ToCSVText(filePath string, anchors []string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := exportRows(f, anchors)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// exportRows picks the sheet carrying the transaction data.
func exportRows(f *excelize.File, anchors []string) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Prefer a sheet that actually contains the anchor columns.
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if sheetHasAnchors(rows, anchors) {
			return rows, nil
		}
	}

	// Fall back to the first sheet.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// sheetHasAnchors reports whether any row of the sheet contains every anchor
// as a cell value.
func sheetHasAnchors(rows [][]string, anchors []string) bool {
	if len(anchors) == 0 {
		return false
	}

	for _, row := range rows {
		cells := make(map[string]bool, len(row))
		for _, cell := range row {
			cells[strings.TrimSpace(cell)] = true
		}

		all := true
		for _, anchor := range anchors {
			if !cells[anchor] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	return false
}
