package shared

import "github.com/shopspring/decimal"

// Sum adds the amounts selected by amount.
func Sum[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(amount(item))
	}
	return total
}

// Money renders d with two decimals for exports, e.g. "Rs. 1200.50".
func Money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}
