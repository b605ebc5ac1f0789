package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/dashboard"
	"github.com/pharmacare/pharmacy-web/internal/exports"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/customers"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/equipment"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/medicines"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/payments"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/sales"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/pharmacy/suppliers"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Services holds the entity services shared by the web server and the worker.
type Services struct {
	Customers *customers.Service
	Suppliers *suppliers.Service
	Medicines *medicines.Service
	Equipment *equipment.Service
	Sales     *sales.Service
	Payments  *payments.Service
	Dashboard *dashboard.Service
	Validator *shared.Validator
}

// NewServices builds every entity service on top of api.
func NewServices(api pharmacyShared.Backend, listSize int, logger *slog.Logger) *Services {
	validator := shared.NewValidator()
	customerRepo := customers.NewRepository(api, listSize)
	supplierRepo := suppliers.NewRepository(api, listSize)
	medicineRepo := medicines.NewRepository(api, listSize)
	equipmentRepo := equipment.NewRepository(api, listSize)
	saleRepo := sales.NewRepository(api, listSize)
	paymentRepo := payments.NewRepository(api, listSize)

	return &Services{
		Customers: customers.NewService(customerRepo, validator),
		Suppliers: suppliers.NewService(supplierRepo, validator),
		Medicines: medicines.NewService(medicineRepo, validator),
		Equipment: equipment.NewService(equipmentRepo, validator),
		Sales:     sales.NewService(saleRepo, validator),
		Payments:  payments.NewService(paymentRepo, validator),
		Dashboard: dashboard.NewService(dashboard.Sources{
			Medicines: medicineRepo,
			Customers: customerRepo,
			Suppliers: supplierRepo,
			Sales:     saleRepo,
			Payments:  paymentRepo,
			Equipment: equipmentRepo,
		}, logger),
		Validator: validator,
	}
}

// ExportRegistry registers every exportable collection.
func (s *Services) ExportRegistry() *exports.Registry {
	registry := exports.NewRegistry()
	listFilters := []string{"q", "tab", "sort"}
	registry.Register(exports.Resource{Key: "customers", Title: "Customers", Filters: listFilters}, s.Customers.Document)
	registry.Register(exports.Resource{Key: "suppliers", Title: "Suppliers", Filters: listFilters}, s.Suppliers.Document)
	registry.Register(exports.Resource{Key: "medicines", Title: "Medicines", Filters: listFilters}, s.Medicines.Document)
	registry.Register(exports.Resource{Key: "equipment", Title: "Equipment", Filters: listFilters}, s.Equipment.Document)
	registry.Register(exports.Resource{Key: "sales", Title: "Sales", Filters: []string{"q", "tab", "sort", "type"}}, s.Sales.Document)
	registry.Register(exports.Resource{Key: "payments", Title: "Payments", Filters: []string{"q", "tab", "sort", "status"}}, s.Payments.Document)
	registry.Register(exports.Resource{Key: "dashboard", Title: "Dashboard"}, s.dashboardDocument)
	return registry
}

func (s *Services) dashboardDocument(ctx context.Context, token string, _ pharmacyShared.ListFilters) (report.Document, error) {
	stats, err := s.Dashboard.Load(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	return dashboard.Document(stats, "", time.Now()), nil
}
