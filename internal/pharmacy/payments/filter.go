package payments

import (
	"strconv"
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Sorts offered in the order dropdown.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "amount-high", "amount-low"}

func newestFirst(a, b Payment) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.PaymentID > b.PaymentID
}

func isPending(p Payment) bool { return strings.EqualFold(p.Status, "Pending") }

func ofType(kind string) func(Payment) bool {
	return func(p Payment) bool { return strings.EqualFold(p.PaymentType, kind) }
}

var listQuery = shared.Query[Payment]{
	Search: func(p Payment, needle string) bool {
		return shared.ContainsFold(needle, strconv.FormatInt(p.PaymentID, 10), p.PaymentBy, p.PaymentType, p.Amount.String())
	},
	Sorts: map[string]func([]Payment) []Payment{
		shared.SortNewest: func(in []Payment) []Payment { return shared.SortStable(in, newestFirst) },
		shared.SortOldest: func(in []Payment) []Payment {
			return shared.SortStable(in, func(a, b Payment) bool { return newestFirst(b, a) })
		},
		"amount-high": func(in []Payment) []Payment {
			return shared.SortStable(in, func(a, b Payment) bool { return a.Amount.GreaterThan(b.Amount) })
		},
		"amount-low": func(in []Payment) []Payment {
			return shared.SortStable(in, func(a, b Payment) bool { return a.Amount.LessThan(b.Amount) })
		},
	},
}

// matchesFilters applies the status and type selects, both case-insensitive.
func matchesFilters(p Payment, f shared.ListFilters) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, shared.TabAll) && !strings.EqualFold(p.Status, f.Status) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(f.Type, shared.TabAll) && !strings.EqualFold(p.PaymentType, f.Type) {
		return false
	}
	return true
}
