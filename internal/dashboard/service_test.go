package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/testing/pagetest"
)

// fakeBackend answers every collection; collections named in failing answer 500.
func fakeBackend(failing map[string]int) http.Handler {
	payloads := map[string]any{
		"/medicines": []medicines.Medicine{{ID: 1, NoOfMedicines: 3}, {ID: 2, NoOfMedicines: 40}, {ID: 3, NoOfMedicines: 9}},
		"/customers": []customers.Customer{{ID: 1}, {ID: 2}},
		"/suppliers": []suppliers.Supplier{{SupplierID: 1}},
		"/sales": []sales.Sale{
			{SaleID: 1, SaleType: "medicine", Amount: decimal.NewFromInt(100)},
			{SaleID: 2, SaleType: "Equipment", Amount: decimal.NewFromInt(50)},
			{SaleID: 3, SaleType: "MEDICINE", Amount: decimal.NewFromInt(25)},
			{SaleID: 4, SaleType: "medicine", Amount: decimal.NewFromInt(25)},
		},
		"/payments":  []payments.Payment{{PaymentID: 1, Amount: decimal.NewFromInt(1000)}, {PaymentID: 2, Amount: decimal.RequireFromString("500.5")}},
		"/equipment": []equipment.Equipment{{ID: 1, NoOfEquipments: 4}, {ID: 2, NoOfEquipments: 6}},
	}
	keys := map[string]string{
		"/medicines": "medicines", "/customers": "customers", "/suppliers": "suppliers",
		"/sales": "sales", "/payments": "payments", "/equipment": "equipment",
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, ok := failing[r.URL.Path]; ok {
			w.WriteHeader(status)
			return
		}
		pagetest.JSON(w, http.StatusOK, map[string]any{"success": true, keys[r.URL.Path]: payloads[r.URL.Path]})
	})
}

func newService(api *apiclient.Client) *Service {
	return NewService(Sources{
		Medicines: medicines.NewRepository(api, 0),
		Customers: customers.NewRepository(api, 0),
		Suppliers: suppliers.NewRepository(api, 0),
		Sales:     sales.NewRepository(api, 0),
		Payments:  payments.NewRepository(api, 0),
		Equipment: equipment.NewRepository(api, 0),
	}, nil)
}

func TestLoadAggregatesAllCollections(t *testing.T) {
	h := pagetest.New(t, fakeBackend(nil))
	stats, err := newService(h.API).Load(context.Background(), pagetest.Token)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalMedicines)
	assert.Equal(t, 2, stats.MedicineShortage)
	assert.Equal(t, "Warning", stats.InventoryStatus)
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 1, stats.TotalSuppliers)
	assert.Equal(t, 10, stats.TotalEquipment)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(stats.TotalPayments))
	assert.Equal(t, 3, stats.MedicinesSold)
	assert.Equal(t, 4, stats.InvoicesGenerated)
	assert.True(t, decimal.NewFromInt(200).Equal(stats.Revenue))
	assert.Equal(t, "Medicine", stats.FrequentlyBoughtItem)
	assert.Empty(t, stats.Failed)
}

func TestLoadKeepsDefaultsForFailedFetch(t *testing.T) {
	h := pagetest.New(t, fakeBackend(map[string]int{"/sales": http.StatusInternalServerError, "/customers": http.StatusForbidden}))
	stats, err := newService(h.API).Load(context.Background(), pagetest.Token)
	require.NoError(t, err)

	assert.Equal(t, UnableToLoad, stats.FrequentlyBoughtItem)
	assert.Zero(t, stats.InvoicesGenerated)
	assert.Zero(t, stats.TotalCustomers)
	assert.Equal(t, 3, stats.TotalMedicines)
	assert.ElementsMatch(t, []string{"sales", "customers"}, stats.Failed)
}

func TestLoadAbortsOnUnauthorized(t *testing.T) {
	h := pagetest.New(t, fakeBackend(map[string]int{"/payments": http.StatusUnauthorized}))
	_, err := newService(h.API).Load(context.Background(), pagetest.Token)
	assert.True(t, errors.Is(err, apiclient.ErrUnauthorized))
}

func TestMostFrequentSaleType(t *testing.T) {
	assert.Equal(t, NoSalesData, MostFrequentSaleType(nil))
	assert.Equal(t, "Equipment", MostFrequentSaleType([]sales.Sale{{SaleType: "medicine"}, {SaleType: "EQUIPMENT"}}))
	assert.Equal(t, "Unknown", MostFrequentSaleType([]sales.Sale{{}}))
}

func TestInsightsAndDocument(t *testing.T) {
	stats := DefaultStats()
	stats.TotalCustomers = 4
	stats.TotalPayments = decimal.NewFromInt(2000)
	stats.TotalMedicines = 20
	stats.TotalSuppliers = 8
	stats.MedicinesSold = 5
	stats.FrequentlyBoughtItem = "Medicine"

	insights := Insights(stats)
	assert.Equal(t, []string{
		"Average revenue per customer: Rs. 500",
		"Average medicines per supplier: 2.5",
		"Sales efficiency: 25.0% of inventory sold",
		"Inventory status is healthy with minimal shortages",
		`"Medicine" is the most popular item`,
	}, insights)

	doc := Document(stats, "Asha Rao (ADMIN)", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "dashboard-report-2025-05-01.pdf", doc.Filename("pdf"))
	assert.Equal(t, []string{"Medicine Shortage", "No Shortage"}, doc.Rows[8])
	assert.Contains(t, doc.Narrative, "managing 20 medicines with 4 active customers")
}
