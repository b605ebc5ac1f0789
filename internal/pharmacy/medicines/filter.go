package medicines

import (
	"strings"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
)

// Tabs offered above the medicine table.
var Tabs = []string{shared.TabAll, "available", "expired", "lowstock"}

// Sorts offered in the order dropdown.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "name", "quantity"}

// IsExpired reports whether m's expiry date falls before today. Unparseable
// dates are not treated as expired.
func IsExpired(m Medicine, now time.Time) bool {
	d, err := time.ParseInLocation(internalShared.DateLayout, strings.TrimSpace(m.ExpiredDate), now.Location())
	if err != nil {
		return false
	}
	y, mo, day := now.Date()
	return d.Before(time.Date(y, mo, day, 0, 0, 0, 0, now.Location()))
}

func listQuery(now time.Time) shared.Query[Medicine] {
	return shared.Query[Medicine]{
		Search: func(m Medicine, needle string) bool {
			return shared.ContainsFold(needle, m.MedicineName, m.MedicineType, m.Manufacturer, m.BatchNumber)
		},
		Tabs: map[string]func(Medicine) bool{
			"available": func(m Medicine) bool { return strings.EqualFold(m.Status, "Available") },
			"expired":   func(m Medicine) bool { return IsExpired(m, now) },
			"lowstock":  Medicine.LowStock,
		},
		Sorts: map[string]func([]Medicine) []Medicine{
			shared.SortNewest: func(in []Medicine) []Medicine {
				return shared.SortStable(in, func(a, b Medicine) bool { return a.ID > b.ID })
			},
			shared.SortOldest: func(in []Medicine) []Medicine {
				return shared.SortStable(in, func(a, b Medicine) bool { return a.ID < b.ID })
			},
			"name": func(in []Medicine) []Medicine {
				return shared.SortStable(in, func(a, b Medicine) bool {
					return strings.ToLower(a.MedicineName) < strings.ToLower(b.MedicineName)
				})
			},
			"quantity": func(in []Medicine) []Medicine {
				return shared.SortStable(in, func(a, b Medicine) bool { return a.NoOfMedicines > b.NoOfMedicines })
			},
		},
	}
}
