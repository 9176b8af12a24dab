// =============================================================================
// Payout Breakdown - CSV Parser Module
// =============================================================================
//
// This module is responsible for locating and parsing the tabular data inside
// a marketplace transaction export. Exports are written for humans first:
// they may carry preamble text, a UTF-8 BOM, blank lines, and the odd
// malformed row. The parser handles:
//   - Locating the real header line via anchor column names
//   - Quoted fields with escape characters
//   - Blank-line skipping and inconsistent field counts
//   - Best-effort recovery from malformed rows
//
// ERROR PHILOSOPHY:
//   The export format is external and loosely specified, so parsing is
//   best-effort by design. Row-level errors are collected and logged, never
//   raised; any input yields some record set, possibly empty.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed export.
type CSVData struct {
	// Headers contains the column headers in source order, trimmed.
	// Source order matters downstream: the date-resolution fallback scans
	// columns in this order.
	Headers []string

	// Rows contains the data rows as maps of header -> raw value.
	// Values are kept raw (including the "--" missing-value sentinel);
	// normalization happens downstream.
	Rows []map[string]string

	// SourceFile is the path to the source export, when parsed from a file.
	SourceFile string

	// RowCount is the total number of data rows (excluding the header).
	RowCount int

	// ColumnCount is the number of columns in the export.
	ColumnCount int

	// ParseErrors contains any row-level errors encountered while reading.
	// These are diagnostics, not failures: the affected rows are skipped and
	// parsing continues.
	ParseErrors []error
}

// =============================================================================
// HEADER LOCATOR
// =============================================================================

// SliceToHeader locates the real header line inside a raw export and returns
// the text from that line onward. The header line is the first line
// containing every anchor column name wrapped in double quotes; the quotes
// guard against partial-token matches inside preamble prose.
//
// If no line matches, the input is returned unchanged and the downstream
// parser degrades gracefully. The function is pure and idempotent.
func SliceToHeader(raw string, anchors []string) string {
	if len(anchors) == 0 {
		return raw
	}

	lines := splitLines(raw)
	for i, line := range lines {
		if containsAllAnchors(line, anchors) {
			return strings.Join(lines[i:], "\n")
		}
	}

	return raw
}

// containsAllAnchors reports whether the line contains every anchor, each
// wrapped in double quotes.
func containsAllAnchors(line string, anchors []string) bool {
	for _, anchor := range anchors {
		if !strings.Contains(line, `"`+anchor+`"`) {
			return false
		}
	}
	return true
}

// splitLines splits on both Unix and Windows line endings.
func splitLines(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a transaction export file and returns the parsed data.
// The raw text is first truncated to the data region via SliceToHeader, then
// parsed into header-keyed records.
//
// Only I/O failures are returned as errors; row-level parse problems are
// collected in CSVData.ParseErrors and logged.
func Parse(filePath string, anchors []string) (*CSVData, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data := ParseString(string(raw), anchors)
	data.SourceFile = filePath
	return data, nil
}

// ParseString parses raw export text into header-keyed records.
// It is total: every input yields a CSVData, possibly with no rows.
//
// PARSING PROCESS:
//   1. Strip a UTF-8 BOM if present
//   2. Truncate the text to the data region (SliceToHeader)
//   3. Read the header line; trim header names
//   4. Read data rows one at a time, skipping blank lines and collecting
//      row-level errors without aborting
func ParseString(raw string, anchors []string) *CSVData {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = SliceToHeader(raw, anchors)

	reader := csv.NewReader(strings.NewReader(raw))
	configureReader(reader)

	data := &CSVData{}

	// Read the header row.
	headerRow, err := readRecord(reader, data)
	if headerRow == nil {
		if err != nil {
			slog.Warn("export has no parseable header line", "error", err)
		}
		return data
	}

	data.Headers = cleanHeaders(headerRow)
	data.ColumnCount = len(data.Headers)

	// Read data rows.
	for {
		row, err := readRecord(reader, data)
		if row == nil {
			if err == nil {
				break // EOF
			}
			continue
		}

		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		// Convert the row to a map keyed by header name.
		rowMap := make(map[string]string, len(data.Headers))
		for colIndex, header := range data.Headers {
			if colIndex < len(row) {
				rowMap[header] = row[colIndex]
			} else {
				// Column is missing in this row.
				rowMap[header] = ""
			}
		}

		data.Rows = append(data.Rows, rowMap)
	}

	data.RowCount = len(data.Rows)
	return data
}

// readRecord reads a single record, logging and collecting row-level errors.
// It returns (nil, nil) at EOF and (nil, err) for a skipped malformed row.
func readRecord(reader *csv.Reader, data *CSVData) ([]string, error) {
	row, err := reader.Read()
	if err == nil {
		return row, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	// Malformed row: record the diagnostic and move on.
	data.ParseErrors = append(data.ParseErrors, err)
	slog.Warn("skipping malformed export row", "error", err)
	return nil, err
}

// configureReader configures the CSV reader for tolerant parsing.
func configureReader(reader *csv.Reader) {
	// Allow variable number of fields per row. Marketplace exports pad some
	// rows and truncate others.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Trim leading space from fields.
	reader.TrimLeadingSpace = true
}

// cleanHeaders cleans and normalizes header values.
//
// CLEANING OPERATIONS:
//   - Trim whitespace
//   - Name empty headers by column index so rows stay addressable
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GetColumnByHeader returns all values for a specific column.
func GetColumnByHeader(data *CSVData, header string) []string {
	values := make([]string, len(data.Rows))
	for i, row := range data.Rows {
		values[i] = row[header]
	}
	return values
}

// GetUniqueValues returns unique values for a specific column, in first-seen
// order.
func GetUniqueValues(data *CSVData, header string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, row := range data.Rows {
		value := row[header]
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}

	return unique
}

// FilterRows returns rows that match a filter condition.
func FilterRows(data *CSVData, filterFunc func(row map[string]string) bool) []map[string]string {
	var filtered []map[string]string

	for _, row := range data.Rows {
		if filterFunc(row) {
			filtered = append(filtered, row)
		}
	}

	return filtered
}
