package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyEUR formats an amount the French way.
// Example: 1234.5 -> "1 234,50 €"
func FormatCurrencyEUR(amount decimal.Decimal) string {
	fixed := amount.Round(2).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	integerPart := parts[0]
	decimalPart := parts[1]

	// thousands separator
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := strings.Join(groups, " ") + "," + decimalPart + " €"
	if negative {
		result = "-" + result
	}
	return result
}

// SumLines computes quantity x price per line and the overall total, rounded to cents.
func SumLines(quantities []int, prices []float64) ([]decimal.Decimal, decimal.Decimal) {
	subtotals := make([]decimal.Decimal, len(quantities))
	total := decimal.Zero
	for i := range quantities {
		sub := decimal.NewFromFloat(prices[i]).Mul(decimal.NewFromInt(int64(quantities[i]))).Round(2)
		subtotals[i] = sub
		total = total.Add(sub)
	}
	return subtotals, total.Round(2)
}
