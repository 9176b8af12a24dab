// =============================================================================
// Payout Breakdown - Field Normalizer
// =============================================================================
//
// This module provides the per-record normalization helpers used throughout
// the pipeline. Marketplace exports are inconsistent about missing values
// (empty cells, the "--" sentinel, absent columns) and about formatting
// (currency symbols inside amounts, several date column spellings), so every
// helper here is total: any input, however malformed, yields a usable value.
//
// =============================================================================

package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MissingSentinel is the literal token the export writes for missing values.
const MissingSentinel = "--"

// DateSentinel is returned when a row's date cannot be resolved at all.
const DateSentinel = "--"

// epsilon compensates for binary floating-point representation error when
// rounding at the .005 boundary (e.g. 1.005 is stored just below 1.005).
const epsilon = 2.220446049250313e-16

// SafeString coerces a raw cell value into a clean string: whitespace is
// trimmed and the export's missing-value sentinel maps to the empty string.
func SafeString(v string) string {
	s := strings.TrimSpace(v)
	if s == MissingSentinel {
		return ""
	}
	return s
}

// ParseAmount coerces a raw cell value into a signed amount. Every character
// except digits, '.' and '-' is stripped first, so "$1,234.56" and
// "1234.56 USD" both parse. Unparseable or absent input yields exactly 0;
// the result is never non-finite.
func ParseAmount(v string) float64 {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

// RowDate resolves the transaction date of a single record.
//
// RESOLUTION ORDER (significant):
//   1. The candidate columns, tried in their listed order; the first
//      non-empty trimmed value wins.
//   2. Any column whose name contains "date" (case-insensitive) with a
//      non-empty value, scanned in source column order.
//   3. The "--" sentinel when nothing matches.
//
// Exact known columns take precedence over the heuristic substring match so
// that exports carrying both e.g. "Transaction creation date" and
// "Payout date" resolve deterministically.
func RowDate(row map[string]string, headers []string, candidates []string) string {
	for _, key := range candidates {
		if v := strings.TrimSpace(row[key]); v != "" {
			return v
		}
	}

	for _, header := range headers {
		if !strings.Contains(strings.ToLower(header), "date") {
			continue
		}
		if v := strings.TrimSpace(row[header]); v != "" {
			return v
		}
	}

	return DateSentinel
}

// FormatMoney renders an amount as "{currency} ${amount}" with exactly two
// decimal digits, rounding half-up. The epsilon added before rounding keeps
// values stored just below the .005 boundary (1.005, 2.675, ...) rounding
// upward, matching what a human reading the export expects.
func FormatMoney(amount float64, currency string) string {
	v := math.Round((amount+epsilon)*100) / 100
	return fmt.Sprintf("%s $%.2f", currency, v)
}
