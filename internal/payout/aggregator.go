// =============================================================================
// Payout Breakdown - Payout Aggregator
// =============================================================================
//
// This module reconstructs payout batches from the parsed export. Records
// are consumed in source order, attributed to their payout identifier, and
// accumulated into per-category totals. The settlement amount is finalized
// only after every record has been seen: the marker row may appear before or
// after its breakdown rows in the export, so a single pass plus a
// finalization step is required, not a streaming running total.
//
// ERROR PHILOSOPHY:
//   Nothing here raises. Records without a payout identifier are dropped,
//   missing fields default, and malformed amounts parse to zero. Every
//   input yields some grouping, possibly empty.
//
// =============================================================================

package payout

import (
	"math"
	"sort"
	"time"

	"github.com/sellertools/payout-breakdown/internal/classify"
	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/csvparser"
	"github.com/sellertools/payout-breakdown/internal/normalize"
)

// =============================================================================
// AGGREGATION
// =============================================================================

// Build groups the parsed export into payout batches keyed by payout
// identifier.
//
// PER-RECORD PROCESS (order matters):
//   1. Records with an empty payout identifier cannot be attributed to any
//      batch and are skipped.
//   2. The group is created lazily on first sight, seeding the currency from
//      that record ("USD" when unresolved).
//   3. The group date is set once, first-seen wins, using the transaction
//      creation date else the payout date.
//   4. Marker rows accumulate |net| into the declared transfer total and are
//      excluded from the breakdown.
//   5. All other rows become ClassifiedRows, appended in source order, with
//      the net amount added to the matching summary bucket.
//
// After all records are consumed, each group's PayoutAmount is finalized:
// the declared transfer total when one was seen, else the breakdown sum.
func Build(data *csvparser.CSVData, profile *config.ExportProfile) map[string]*Group {
	columns := profile.Columns
	classifier := classify.New(columns)
	groups := make(map[string]*Group)

	for _, row := range data.Rows {
		payoutID := normalize.SafeString(row[columns.PayoutID])
		if payoutID == "" {
			continue
		}

		group, ok := groups[payoutID]
		if !ok {
			group = newGroup(payoutID, row, columns, profile.DefaultCurrency)
			groups[payoutID] = group
		}

		// First non-empty date wins: transaction creation date, else the
		// payout date column.
		if group.PayoutDate == "" {
			d1 := normalize.SafeString(row[columns.TransactionDate])
			d2 := normalize.SafeString(row[columns.PayoutDate])
			if d1 != "" {
				group.PayoutDate = d1
			} else {
				group.PayoutDate = d2
			}
		}

		net := normalize.ParseAmount(row[columns.NetAmount])
		kind := classifier.Classify(row)

		if kind == classify.KindPayout {
			group.declaredTransfer += math.Abs(net)
			continue
		}

		group.Rows = append(group.Rows, ClassifiedRow{
			Kind:        kind,
			TypeRaw:     normalize.SafeString(row[columns.Type]),
			OrderNumber: normalize.SafeString(row[columns.OrderNumber]),
			ItemTitle:   normalize.SafeString(row[columns.ItemTitle]),
			Description: normalize.SafeString(row[columns.Description]),
			NetAmount:   net,
			Date:        normalize.RowDate(row, data.Headers, profile.DateCandidates),
		})
		group.Summary.RowCount++

		switch kind {
		case classify.KindSale:
			group.Summary.SalesTotal += net
		case classify.KindFee:
			group.Summary.FeesTotal += net
		default:
			group.Summary.AdjustmentsTotal += net
		}
	}

	// Finalize: the marker row is authoritative when present; otherwise the
	// settlement amount is the breakdown sum by construction.
	for _, group := range groups {
		if group.declaredTransfer > 0 {
			group.PayoutAmount = group.declaredTransfer
		} else {
			group.PayoutAmount = group.BreakdownSum()
		}
	}

	return groups
}

// newGroup seeds a fresh group from the record that first references its
// payout identifier.
func newGroup(payoutID string, row map[string]string, columns config.ColumnMap, defaultCurrency string) *Group {
	currency := normalize.SafeString(row[columns.Currency])
	if currency == "" {
		currency = defaultCurrency
	}

	return &Group{
		PayoutID: payoutID,
		Currency: currency,
	}
}

// =============================================================================
// PRESENTATION ORDER
// =============================================================================

// Sorted returns the groups ordered by resolved payout date, newest first.
// Groups whose date cannot be parsed sort last; ties break on PayoutID so
// the order is deterministic.
func Sorted(groups map[string]*Group) []*Group {
	list := make([]*Group, 0, len(groups))
	for _, group := range groups {
		list = append(list, group)
	}

	sort.Slice(list, func(i, j int) bool {
		ti := parseDateLoose(list[i].PayoutDate)
		tj := parseDateLoose(list[j].PayoutDate)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return list[i].PayoutID < list[j].PayoutID
	})

	return list
}

// dateLayouts are the date shapes seen across marketplace exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006 15:04:05 MST",
	"Jan 2, 2006",
	"01/02/2006",
}

// parseDateLoose parses a date string on a best-effort basis, returning the
// zero time when nothing matches.
func parseDateLoose(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
