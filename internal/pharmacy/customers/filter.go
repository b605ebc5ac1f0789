package customers

import (
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Tabs offered above the customer table.
var Tabs = []string{shared.TabAll, "male", "female", "other"}

// Sorts offered in the order dropdown.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "name-asc", "name-desc"}

func byGender(gender string) func(Customer) bool {
	return func(c Customer) bool { return strings.EqualFold(c.Gender, gender) }
}

func newestFirst(a, b Customer) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID > b.ID
}

var listQuery = shared.Query[Customer]{
	Search: func(c Customer, needle string) bool {
		return shared.ContainsFold(needle, c.CustomerName, c.Email, c.Gender)
	},
	Tabs: map[string]func(Customer) bool{
		"male":   byGender("Male"),
		"female": byGender("Female"),
		"other":  byGender("Other"),
	},
	Sorts: map[string]func([]Customer) []Customer{
		shared.SortNewest: func(in []Customer) []Customer {
			return shared.SortStable(in, newestFirst)
		},
		shared.SortOldest: func(in []Customer) []Customer {
			return shared.SortStable(in, func(a, b Customer) bool { return newestFirst(b, a) })
		},
		"name-asc": func(in []Customer) []Customer {
			return shared.SortStable(in, func(a, b Customer) bool {
				return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
			})
		},
		"name-desc": func(in []Customer) []Customer {
			return shared.SortStable(in, func(a, b Customer) bool {
				return strings.ToLower(a.CustomerName) > strings.ToLower(b.CustomerName)
			})
		},
	},
}
