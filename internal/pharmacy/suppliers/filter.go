package suppliers

import (
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Tabs offered above the supplier table.
var Tabs = []string{shared.TabAll, "medicine", "equipment"}

// Sorts offered in the order dropdown. Newest keeps backend order.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "name-asc", "name-desc", "company-asc", "company-desc"}

func bySupplyType(kind string) func(Supplier) bool {
	return func(s Supplier) bool { return s.SupplyType == kind }
}

func byText(field func(Supplier) string, desc bool) func([]Supplier) []Supplier {
	return func(in []Supplier) []Supplier {
		return shared.SortStable(in, func(a, b Supplier) bool {
			x, y := strings.ToLower(field(a)), strings.ToLower(field(b))
			if desc {
				return x > y
			}
			return x < y
		})
	}
}

func supplierName(s Supplier) string { return s.SupplierName }
func companyName(s Supplier) string  { return s.Company }

var listQuery = shared.Query[Supplier]{
	Search: func(s Supplier, needle string) bool {
		return shared.ContainsFold(needle, s.SupplierName, s.Email, s.Company, s.SupplyType)
	},
	Tabs: map[string]func(Supplier) bool{
		"medicine":  bySupplyType("Medicine"),
		"equipment": bySupplyType("Equipment"),
	},
	Sorts: map[string]func([]Supplier) []Supplier{
		shared.SortNewest: func(in []Supplier) []Supplier { return in },
		shared.SortOldest: shared.Reverse[Supplier],
		"name-asc":        byText(supplierName, false),
		"name-desc":       byText(supplierName, true),
		"company-asc":     byText(companyName, false),
		"company-desc":    byText(companyName, true),
	},
}
