package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellertools/payout-breakdown/internal/config"
	"github.com/sellertools/payout-breakdown/internal/csvparser"
)

func checkData(rows ...map[string]string) *csvparser.CSVData {
	return &csvparser.CSVData{
		Headers:  []string{"Type", "Net amount", "Payout currency"},
		Rows:     rows,
		RowCount: len(rows),
	}
}

func TestCheck(t *testing.T) {
	columns := config.DefaultProfile().Columns

	t.Run("balanced export passes", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-97.50", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Other fee", "Net amount": "-2.50", "Payout currency": "USD"},
		), columns)

		assert.True(t, result.OK)
		assert.Empty(t, result.Issues)
		assert.InDelta(t, 97.50, result.PayoutAmount, 1e-9)
		assert.InDelta(t, 0, result.Balance, balanceTolerance)
	})

	t.Run("imbalance is reported", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-90.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
		), columns)

		assert.False(t, result.OK)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "does not balance")
		assert.InDelta(t, 10.00, result.Balance, 1e-9)
	})

	t.Run("missing marker is reported", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
		), columns)

		assert.False(t, result.OK)
		assert.Contains(t, result.Issues[0], "found 0")
	})

	t.Run("duplicate markers are reported", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-50.00", "Payout currency": "USD"},
			map[string]string{"Type": "Payout", "Net amount": "-50.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
		), columns)

		assert.False(t, result.OK)
		require.Len(t, result.Issues, 1, "balance still cancels, only the marker count fails")
		assert.Contains(t, result.Issues[0], "found 2")
	})

	t.Run("mixed currencies are reported", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "EUR"},
		), columns)

		assert.False(t, result.OK)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "mixed payout currencies")
		assert.Contains(t, result.Issues[0], "USD,EUR")
	})

	t.Run("sentinel currency cells are ignored", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "--"},
			map[string]string{"Type": "Refund", "Net amount": "0.00", "Payout currency": ""},
		), columns)

		assert.True(t, result.OK)
	})

	t.Run("marker match is exact and case-sensitive", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "payout", "Net amount": "-100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
		), columns)

		// "payout" is not the marker spelling, so no marker is found and the
		// lowercase row's amount lands on the breakdown side.
		assert.False(t, result.OK)
		assert.Contains(t, result.Issues[0], "found 0")
		assert.InDelta(t, 0, result.PayoutAmount, 1e-9)
	})

	t.Run("every violation is reported, not just the first", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Refund", "Net amount": "-5.00", "Payout currency": "EUR"},
		), columns)

		assert.False(t, result.OK)
		assert.Len(t, result.Issues, 3)
	})

	t.Run("thousands separators are stripped", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-1,234.56", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "1,234.56", "Payout currency": "USD"},
		), columns)

		assert.True(t, result.OK)
		assert.InDelta(t, 1234.56, result.PayoutAmount, 1e-9)
	})

	t.Run("unparseable amounts count as zero", func(t *testing.T) {
		result := Check(checkData(
			map[string]string{"Type": "Payout", "Net amount": "-100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Order", "Net amount": "100.00", "Payout currency": "USD"},
			map[string]string{"Type": "Refund", "Net amount": "--", "Payout currency": "USD"},
		), columns)

		assert.True(t, result.OK)
	})

	t.Run("empty export fails on the marker count only", func(t *testing.T) {
		result := Check(checkData(), columns)

		assert.False(t, result.OK)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "found 0")
		assert.Zero(t, result.PayoutAmount)
		assert.Zero(t, result.Balance)
	})
}

func TestLooseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"100.00", 100.0},
		{"-2.50", -2.5},
		{"1,234.56", 1234.56},
		{" 42 ", 42},
		{"", 0},
		{"--", 0},
		{"$12", 0},
		{"1e999", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, looseNumber(tt.input), "input %q", tt.input)
	}
}
