// =============================================================================
// Payout Breakdown - Reconciliation Checker
// =============================================================================
//
// This module verifies that a single export balances: the declared transfer
// amount on the payout marker row should equal, with opposite sign, the sum
// of every other row. It runs over the full parsed record set, independently
// of the grouping output, and yields a pass/fail diagnostic.
//
// ERROR HANDLING:
//   Anomalies are not errors. Every violated condition is reported as a
//   human-readable issue string, all of them, not just the first; the caller
//   decides how to present the result.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/csvparser"
	"github.com/sellertools/payout-breakdown/internal/normalize"
)

// balanceTolerance is the absolute slack allowed on the balance. Amounts are
// binary floats summed in row order, so exact zero is not attainable.
const balanceTolerance = 0.01

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of reconciling one export.
type Result struct {
	// OK is true iff exactly one payout marker row exists, the balance is
	// within tolerance, and at most one distinct currency is present.
	OK bool

	// PayoutAmount is the absolute value of the marker rows' net total.
	PayoutAmount float64

	// Balance is the signed sum of marker-row totals plus all other rows'
	// totals. Zero when the export balances.
	Balance float64

	// Issues lists one human-readable diagnostic per violated condition.
	// Empty when OK.
	Issues []string
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// Check reconciles a full export, assumed to represent one payout batch.
// Records are partitioned by exact type match against "Payout"; the two
// partitions' net totals should cancel out.
func Check(data *csvparser.CSVData, columns config.ColumnMap) Result {
	var payoutNet, othersNet float64
	var markerCount int

	for _, row := range data.Rows {
		net := looseNumber(row[columns.NetAmount])
		if row[columns.Type] == "Payout" {
			markerCount++
			payoutNet += net
		} else {
			othersNet += net
		}
	}

	balance := payoutNet + othersNet
	currencies := collectCurrencies(data, columns)

	result := Result{
		PayoutAmount: math.Abs(payoutNet),
		Balance:      balance,
	}

	if markerCount != 1 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("expected exactly 1 payout marker row, found %d", markerCount))
	}
	if math.Abs(balance) >= balanceTolerance {
		result.Issues = append(result.Issues,
			fmt.Sprintf("breakdown does not balance against the payout: difference %.2f", balance))
	}
	if len(currencies) > 1 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("mixed payout currencies: %s", strings.Join(currencies, ",")))
	}

	result.OK = len(result.Issues) == 0
	return result
}

// collectCurrencies gathers the distinct payout currencies present in the
// export, in first-seen order, ignoring empty cells and the missing-value
// sentinel.
func collectCurrencies(data *csvparser.CSVData, columns config.ColumnMap) []string {
	seen := make(map[string]bool)
	var currencies []string

	for _, row := range data.Rows {
		v := row[columns.Currency]
		if v == "" || v == normalize.MissingSentinel {
			continue
		}
		if !seen[v] {
			seen[v] = true
			currencies = append(currencies, v)
		}
	}

	return currencies
}

// looseNumber parses an amount for balancing purposes: thousands separators
// are stripped, anything unparseable counts as zero. This is deliberately
// stricter than the breakdown's amount normalizer: a cell like "$12" is a
// formatting anomaly the balance should surface, not silently absorb.
func looseNumber(v string) float64 {
	s := strings.ReplaceAll(v, ",", "")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}
