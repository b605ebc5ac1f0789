package sales

import (
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Tabs offered above the sales table.
var Tabs = []string{shared.TabAll, "completed", "pending", "cancelled"}

// Sorts offered in the order dropdown.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "amount-high", "amount-low", "customer"}

func byStatus(status string) func(Sale) bool {
	return func(s Sale) bool { return strings.EqualFold(s.Status, status) }
}

// newestFirst orders by date, then id, both descending.
func newestFirst(a, b Sale) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.SaleID > b.SaleID
}

var listQuery = shared.Query[Sale]{
	Search: func(s Sale, needle string) bool {
		return shared.ContainsFold(needle, s.Customer, s.SaleType, s.Status, s.Amount.String())
	},
	Tabs: map[string]func(Sale) bool{
		"completed": byStatus("Completed"),
		"pending":   byStatus("Pending"),
		"cancelled": byStatus("Cancelled"),
	},
	Sorts: map[string]func([]Sale) []Sale{
		shared.SortNewest: func(in []Sale) []Sale { return shared.SortStable(in, newestFirst) },
		shared.SortOldest: func(in []Sale) []Sale {
			return shared.SortStable(in, func(a, b Sale) bool { return newestFirst(b, a) })
		},
		"amount-high": func(in []Sale) []Sale {
			return shared.SortStable(in, func(a, b Sale) bool { return a.Amount.GreaterThan(b.Amount) })
		},
		"amount-low": func(in []Sale) []Sale {
			return shared.SortStable(in, func(a, b Sale) bool { return a.Amount.LessThan(b.Amount) })
		},
		"customer": func(in []Sale) []Sale {
			return shared.SortStable(in, func(a, b Sale) bool {
				return strings.ToLower(a.Customer) < strings.ToLower(b.Customer)
			})
		},
	},
}
