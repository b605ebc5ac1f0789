package equipment

import (
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Tabs offered above the equipment table.
var Tabs = []string{shared.TabAll, "lowstock"}

// Sorts offered in the order dropdown.
var Sorts = []string{shared.SortNewest, shared.SortOldest, "name", "quantity"}

var listQuery = shared.Query[Equipment]{
	Search: func(e Equipment, needle string) bool {
		return shared.ContainsFold(needle, e.EquipmentName, e.Model)
	},
	Tabs: map[string]func(Equipment) bool{
		"lowstock": Equipment.LowStock,
	},
	Sorts: map[string]func([]Equipment) []Equipment{
		shared.SortNewest: func(in []Equipment) []Equipment {
			return shared.SortStable(in, func(a, b Equipment) bool { return a.ID > b.ID })
		},
		shared.SortOldest: func(in []Equipment) []Equipment {
			return shared.SortStable(in, func(a, b Equipment) bool { return a.ID < b.ID })
		},
		"name": func(in []Equipment) []Equipment {
			return shared.SortStable(in, func(a, b Equipment) bool {
				return strings.ToLower(a.EquipmentName) < strings.ToLower(b.EquipmentName)
			})
		},
		"quantity": func(in []Equipment) []Equipment {
			return shared.SortStable(in, func(a, b Equipment) bool { return a.NoOfEquipments > b.NoOfEquipments })
		},
	},
}
