package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/report"
)

// Insights derives the business observations printed under the KPI table.
func Insights(s Stats) []string {
	perCustomer := decimal.Zero
	if s.TotalCustomers > 0 {
		perCustomer = s.TotalPayments.Div(decimal.NewFromInt(int64(s.TotalCustomers)))
	}
	perSupplier := 0.0
	if s.TotalSuppliers > 0 {
		perSupplier = float64(s.TotalMedicines) / float64(s.TotalSuppliers)
	}
	efficiency := 0.0
	if s.TotalMedicines > 0 {
		efficiency = float64(s.MedicinesSold) / float64(s.TotalMedicines) * 100
	}

	out := []string{
		"Average revenue per customer: " + view.FormatCurrency(perCustomer),
		fmt.Sprintf("Average medicines per supplier: %.1f", perSupplier),
		fmt.Sprintf("Sales efficiency: %.1f%% of inventory sold", efficiency),
	}
	switch s.InventoryStatus {
	case "Good":
		out = append(out, "Inventory status is healthy with minimal shortages")
	case "Warning":
		out = append(out, "Inventory requires attention - some items running low")
	default:
		out = append(out, "Critical inventory shortage - immediate restocking needed")
	}
	if s.FrequentlyBoughtItem != NoSalesData && s.FrequentlyBoughtItem != UnableToLoad {
		out = append(out, fmt.Sprintf("%q is the most popular item", s.FrequentlyBoughtItem))
	}
	return out
}

// ExecutiveSummary is the closing paragraph of the dashboard report.
func ExecutiveSummary(s Stats) string {
	return fmt.Sprintf("The pharmacy is currently managing %s medicines with %s active customers and %s suppliers. "+
		"The business has generated %s in total revenue with %s invoices processed. "+
		"The inventory status is %s, and the most popular item among customers is %q.",
		view.FormatNumber(s.TotalMedicines), view.FormatNumber(s.TotalCustomers), view.FormatNumber(s.TotalSuppliers),
		view.FormatCurrency(s.TotalPayments), view.FormatNumber(s.InvoicesGenerated),
		strings.ToLower(s.InventoryStatus), s.FrequentlyBoughtItem)
}

// Document renders the dashboard summary report.
func Document(s Stats, generatedBy string, at time.Time) report.Document {
	shortage := "No Shortage"
	if s.MedicineShortage >= 5 {
		shortage = view.FormatNumber(s.MedicineShortage)
	}
	rows := [][]string{
		{"Total Revenue", view.FormatCurrency(s.TotalPayments)},
		{"Total Medicines", view.FormatNumber(s.TotalMedicines)},
		{"Total Customers", view.FormatNumber(s.TotalCustomers)},
		{"Total Suppliers", view.FormatNumber(s.TotalSuppliers)},
		{"Total Equipment", view.FormatNumber(s.TotalEquipment)},
		{"Medicines Sold", view.FormatNumber(s.MedicinesSold)},
		{"Invoices Generated", view.FormatNumber(s.InvoicesGenerated)},
		{"Inventory Status", s.InventoryStatus},
		{"Medicine Shortage", shortage},
		{"Most Popular Item", s.FrequentlyBoughtItem},
	}
	doc := report.Document{
		Name:        "dashboard-report",
		Title:       "Dashboard Summary Report",
		GeneratedAt: at,
		GeneratedBy: generatedBy,
		Columns:     []string{"Metric", "Value"},
		Rows:        rows,
		Notes:       Insights(s),
		Narrative:   ExecutiveSummary(s),
		Footer:      "Page 1 of 1",
	}
	if len(s.Failed) > 0 {
		doc.Subtitle = "Some figures could not be loaded: " + strings.Join(s.Failed, ", ")
	}
	return doc
}
