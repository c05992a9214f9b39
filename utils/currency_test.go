package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrencyEUR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "zero", amount: "0", want: "0,00 €"},
		{name: "simple", amount: "24.5", want: "24,50 €"},
		{name: "thousands", amount: "1234.5", want: "1 234,50 €"},
		{name: "millions", amount: "1234567.891", want: "1 234 567,89 €"},
		{name: "negative", amount: "-12.3", want: "-12,30 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrencyEUR(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestSumLines(t *testing.T) {
	subtotals, total := SumLines([]int{2, 1, 3}, []float64{12.5, 3.1, 0.1})

	assert.True(t, subtotals[0].Equal(decimal.RequireFromString("25")))
	assert.True(t, subtotals[1].Equal(decimal.RequireFromString("3.1")))
	assert.True(t, subtotals[2].Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "28.40", total.StringFixed(2))
}
