// =============================================================================
// Payout Breakdown - Payout Data Model
// =============================================================================
//
// This package contains the payout grouping model shared by the aggregator,
// the report writer, and the CLI presentation layer.
//
// =============================================================================

package payout

import (
	"github.com/sellertools/payout-breakdown/internal/classify"
)

// =============================================================================
// CLASSIFIED ROW
// =============================================================================

// ClassifiedRow is a single non-marker export record attributed to a payout.
// It is created once during aggregation, owned by its Group, and never
// mutated afterwards.
type ClassifiedRow struct {
	// Kind is the semantic category: sale, fee, or adjustment.
	// Marker rows never become ClassifiedRows.
	Kind classify.Kind

	// TypeRaw is the export's original type label, normalized.
	TypeRaw string

	// OrderNumber is the marketplace order number, if any.
	OrderNumber string

	// ItemTitle is the listed item title, if any.
	ItemTitle string

	// Description is the export's free-text description, if any.
	Description string

	// NetAmount is the signed net amount of the row.
	NetAmount float64

	// Date is the resolved transaction date string, "--" if unresolvable.
	Date string
}

// =============================================================================
// GROUP SUMMARY
// =============================================================================

// Summary holds per-category totals for one payout group.
type Summary struct {
	// SalesTotal is the signed sum of sale rows.
	SalesTotal float64

	// FeesTotal is the signed sum of fee rows (typically negative).
	FeesTotal float64

	// AdjustmentsTotal is the signed sum of adjustment rows.
	AdjustmentsTotal float64

	// RowCount is the number of non-marker rows in the group.
	// Invariant: RowCount == len(Group.Rows).
	RowCount int
}

// =============================================================================
// PAYOUT GROUP
// =============================================================================

// Group is one payout batch: the unit of reconciliation. A group is created
// lazily when the first record referencing its payout identifier is seen,
// grows additively while records are consumed, and is finalized (PayoutAmount
// computed) only after the whole export has been read.
type Group struct {
	// PayoutID uniquely identifies the batch. Never empty.
	PayoutID string

	// PayoutDate is the first non-empty date seen among the group's records,
	// using the "transaction date else payout date" precedence.
	PayoutDate string

	// Currency is the payout currency, "USD" when unresolved. It is seeded
	// from whichever record initializes the group and not re-checked across
	// rows; mixed currencies within one payout are only flagged by the
	// whole-input reconciliation check.
	Currency string

	// PayoutAmount is the settlement total: the absolute declared transfer
	// total when a marker row exists, else the breakdown sum.
	PayoutAmount float64

	// Summary holds the per-category totals over Rows.
	Summary Summary

	// Rows are the breakdown rows in source order.
	Rows []ClassifiedRow

	// declaredTransfer accumulates |net| across marker rows until the group
	// is finalized. Multiple marker rows for one identifier are summed, not
	// flagged here; the reconciliation check reports them.
	declaredTransfer float64
}

// BreakdownSum returns the signed sum of net amounts over the group's rows.
func (g *Group) BreakdownSum() float64 {
	var sum float64
	for _, row := range g.Rows {
		sum += row.NetAmount
	}
	return sum
}
