// Package dashboard aggregates the entity collections into the landing page
// statistics.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/view"
)

const (
	// NoSalesData is shown as the popular item when there are no sales.
	NoSalesData = "No sales data"
	// UnableToLoad is shown as the popular item when sales could not be fetched.
	UnableToLoad = "Unable to load"
)

// Stats are the dashboard figures. Each collection fills its own fields; a
// failed fetch leaves them at their defaults and is named in Failed.
type Stats struct {
	TotalMedicines       int
	MedicineShortage     int
	InventoryStatus      string
	TotalCustomers       int
	TotalSuppliers       int
	TotalEquipment       int
	TotalPayments        decimal.Decimal
	MedicinesSold        int
	InvoicesGenerated    int
	Revenue              decimal.Decimal
	FrequentlyBoughtItem string
	Failed               []string
}

// DefaultStats returns the figures shown before any collection loads.
func DefaultStats() Stats {
	return Stats{
		InventoryStatus:      medicines.InventoryStatus(0),
		TotalPayments:        decimal.Zero,
		Revenue:              decimal.Zero,
		FrequentlyBoughtItem: NoSalesData,
	}
}

// Sources are the collections the dashboard reads.
type Sources struct {
	Medicines medicines.Repository
	Customers customers.Repository
	Suppliers suppliers.Repository
	Sales     sales.Repository
	Payments  payments.Repository
	Equipment equipment.Repository
}

// Service loads dashboard statistics.
type Service struct {
	src    Sources
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(src Sources, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, logger: logger}
}

// Load fetches the six collections concurrently. Individual failures are
// recorded in Stats.Failed; only a rejected token aborts the load.
func (s *Service) Load(ctx context.Context, token string) (Stats, error) {
	stats := DefaultStats()
	var mu sync.Mutex
	fail := func(name string, err error) error {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return err
		}
		s.logger.Warn("dashboard fetch failed", slog.String("collection", name), slog.Any("error", err))
		mu.Lock()
		stats.Failed = append(stats.Failed, name)
		mu.Unlock()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.src.Medicines.List(ctx, token)
		if err != nil {
			return fail("medicines", err)
		}
		shortage := 0
		for _, m := range items {
			if m.LowStock() {
				shortage++
			}
		}
		stats.TotalMedicines = len(items)
		stats.MedicineShortage = shortage
		stats.InventoryStatus = medicines.InventoryStatus(shortage)
		return nil
	})

	g.Go(func() error {
		items, err := s.src.Customers.List(ctx, token)
		if err != nil {
			return fail("customers", err)
		}
		stats.TotalCustomers = len(items)
		return nil
	})

	g.Go(func() error {
		items, err := s.src.Suppliers.List(ctx, token)
		if err != nil {
			return fail("suppliers", err)
		}
		stats.TotalSuppliers = len(items)
		return nil
	})

	g.Go(func() error {
		items, err := s.src.Sales.List(ctx, token)
		if err != nil {
			stats.FrequentlyBoughtItem = UnableToLoad
			return fail("sales", err)
		}
		sold := 0
		for _, sale := range items {
			if strings.EqualFold(sale.SaleType, "medicine") {
				sold++
			}
		}
		stats.MedicinesSold = sold
		stats.InvoicesGenerated = len(items)
		stats.Revenue = sales.Revenue(items)
		stats.FrequentlyBoughtItem = MostFrequentSaleType(items)
		return nil
	})

	g.Go(func() error {
		items, err := s.src.Payments.List(ctx, token)
		if err != nil {
			return fail("payments", err)
		}
		stats.TotalPayments = payments.TotalAmount(items)
		return nil
	})

	g.Go(func() error {
		items, err := s.src.Equipment.List(ctx, token)
		if err != nil {
			return fail("equipment", err)
		}
		stats.TotalEquipment = equipment.TotalUnits(items)
		return nil
	})

	if err := g.Wait(); err != nil {
		return DefaultStats(), err
	}
	return stats, nil
}

// MostFrequentSaleType returns the capitalised sale type with the most sales.
// Ties go to the type seen last; sales without a type count as "Unknown".
func MostFrequentSaleType(items []sales.Sale) string {
	if len(items) == 0 {
		return NoSalesData
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, sale := range items {
		kind := sale.SaleType
		if kind == "" {
			kind = "Unknown"
		}
		if _, seen := counts[kind]; !seen {
			order = append(order, kind)
		}
		counts[kind]++
	}
	best := order[0]
	for _, kind := range order[1:] {
		if counts[kind] >= counts[best] {
			best = kind
		}
	}
	return view.Capitalize(best)
}
