package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain value", "Order-123", "Order-123"},
		{"surrounding whitespace", "  hello  ", "hello"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"missing sentinel", "--", ""},
		{"sentinel with whitespace", " -- ", ""},
		{"sentinel inside value survives", "a--b", "a--b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeString(tt.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain decimal", "100.00", 100.0},
		{"negative", "-2.50", -2.5},
		{"currency symbol", "$1,234.56", 1234.56},
		{"trailing currency code", "97.50 USD", 97.5},
		{"empty", "", 0},
		{"missing sentinel", "--", 0},
		{"garbage", "abc", 0},
		{"multiple dots", "1.2.3", 0},
		{"integer", "42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAmountNeverNonFinite(t *testing.T) {
	// Inputs engineered to stress the parser must still come out finite.
	inputs := []string{"", "-", ".", "--", "-.", "1e999", "Inf", "NaN"}
	for _, input := range inputs {
		got := ParseAmount(input)
		assert.Equal(t, 0.0, got, "input %q", input)
	}
}

func TestRowDate(t *testing.T) {
	candidates := []string{
		"Transaction creation date",
		"Transaction creation date (UTC)",
		"Transaction date",
		"Date",
	}

	tests := []struct {
		name     string
		row      map[string]string
		headers  []string
		expected string
	}{
		{
			name: "first candidate wins",
			row: map[string]string{
				"Transaction creation date": "Jan 5, 2024",
				"Transaction date":          "Jan 6, 2024",
			},
			headers:  []string{"Transaction creation date", "Transaction date"},
			expected: "Jan 5, 2024",
		},
		{
			name: "falls through empty candidates in order",
			row: map[string]string{
				"Transaction creation date":       "",
				"Transaction creation date (UTC)": "2024-01-05",
			},
			headers:  []string{"Transaction creation date", "Transaction creation date (UTC)"},
			expected: "2024-01-05",
		},
		{
			name: "exact match beats substring fallback",
			row: map[string]string{
				"Payout date": "Jan 1, 2024",
				"Date":        "Jan 9, 2024",
			},
			headers:  []string{"Payout date", "Date"},
			expected: "Jan 9, 2024",
		},
		{
			name: "substring fallback in source column order",
			row: map[string]string{
				"Type":        "Other fee",
				"Payout date": "Jan 7, 2024",
			},
			headers:  []string{"Type", "Payout date"},
			expected: "Jan 7, 2024",
		},
		{
			name: "fallback is case-insensitive",
			row: map[string]string{
				"SETTLEMENT DATE": "Jan 8, 2024",
			},
			headers:  []string{"SETTLEMENT DATE"},
			expected: "Jan 8, 2024",
		},
		{
			name:     "nothing matches yields sentinel",
			row:      map[string]string{"Type": "Payout"},
			headers:  []string{"Type"},
			expected: "--",
		},
		{
			name:     "empty row yields sentinel",
			row:      map[string]string{},
			headers:  nil,
			expected: "--",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RowDate(tt.row, tt.headers, candidates))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		expected string
	}{
		{"plain amount", 97.5, "USD", "USD $97.50"},
		{"half-up at the float boundary", 1.005, "USD", "USD $1.01"},
		{"another boundary case", 2.675, "USD", "USD $2.68"},
		{"negative", -2.5, "USD", "USD $-2.50"},
		{"zero", 0, "EUR", "EUR $0.00"},
		{"already two decimals", 1234.56, "GBP", "GBP $1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(tt.amount, tt.currency))
		})
	}
}
