// =============================================================================
// Payout Breakdown - Row Classifier
// =============================================================================
//
// This module assigns each export record to a semantic category: the payout
// marker row (the settlement transfer itself), or one of the breakdown
// categories (sale, fee, adjustment).
//
// CLASSIFICATION STRATEGY:
//   The classifier is an ordered list of (predicate, kind) rules evaluated
//   top-down; the first matching rule wins. The order is load-bearing: a
//   payout marker row that also carries an order number must classify as
//   payout, not sale. New signals can be added or reordered without
//   restructuring control flow, and each rule is independently testable.
//
//   This is a heuristic tuned for the eBay transaction report's quirks. It is
//   not exhaustive; unknown row shapes default safely to adjustment.
//
// =============================================================================

package classify

import (
	"strings"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/normalize"
)

// =============================================================================
// KIND ENUM
// =============================================================================

// Kind is the semantic category of an export record.
type Kind string

const (
	// KindPayout marks the settlement transfer row itself. Marker rows are
	// excluded from the breakdown and only contribute to the group's
	// settlement total.
	KindPayout Kind = "payout"

	// KindSale is a transaction row tied to an order or item.
	KindSale Kind = "sale"

	// KindFee is a platform fee row.
	KindFee Kind = "fee"

	// KindAdjustment is the catch-all default (refunds, disputes, credits,
	// anything the other signals miss).
	KindAdjustment Kind = "adjustment"
)

// =============================================================================
// RULE STRUCTURE
// =============================================================================

// Rule pairs a predicate with the kind it assigns.
type Rule struct {
	// Name identifies the rule in logs and tests.
	Name string

	// Matches reports whether this rule applies to the record.
	Matches func(row map[string]string) bool

	// Kind is the category assigned when the rule matches.
	Kind Kind
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier evaluates an ordered rule chain against export records.
type Classifier struct {
	rules []Rule
}

// New builds the default rule chain for the given column mapping.
//
// DECISION ORDER (first match wins):
//   1. payout-marker : normalized Type equals "payout" (case-insensitive)
//   2. sale-signal   : Order number or Item ID is non-empty
//   3. fee-keyword   : Type or Description contains "fee" (case-insensitive)
//   4. (default)     : adjustment
func New(columns config.ColumnMap) *Classifier {
	return &Classifier{
		rules: []Rule{
			{
				Name: "payout-marker",
				Kind: KindPayout,
				Matches: func(row map[string]string) bool {
					return strings.ToLower(normalize.SafeString(row[columns.Type])) == "payout"
				},
			},
			{
				Name: "sale-signal",
				Kind: KindSale,
				Matches: func(row map[string]string) bool {
					return normalize.SafeString(row[columns.OrderNumber]) != "" ||
						normalize.SafeString(row[columns.ItemID]) != ""
				},
			},
			{
				Name: "fee-keyword",
				Kind: KindFee,
				Matches: func(row map[string]string) bool {
					typ := strings.ToLower(normalize.SafeString(row[columns.Type]))
					desc := strings.ToLower(normalize.SafeString(row[columns.Description]))
					return strings.Contains(typ, "fee") || strings.Contains(desc, "fee")
				},
			},
		},
	}
}

// Classify returns the kind of a single record. Records no rule claims fall
// through to KindAdjustment.
func (c *Classifier) Classify(row map[string]string) Kind {
	for _, rule := range c.rules {
		if rule.Matches(row) {
			return rule.Kind
		}
	}
	return KindAdjustment
}

// Rules exposes the rule chain, in evaluation order, for per-rule testing.
func (c *Classifier) Rules() []Rule {
	return c.rules
}
