package suppliers

import (
	"context"
	"strconv"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies supplier rules on top of the backend collection.
type Service struct {
	repo      Repository
	validator *internalShared.Validator
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, validator *internalShared.Validator) *Service {
	if validator == nil {
		validator = internalShared.NewValidator()
	}
	return &Service{repo: repo, validator: validator, now: time.Now}
}

func (s *Service) List(ctx context.Context, token string) ([]Supplier, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, form Form) (Supplier, error) {
	if err := s.validate(form); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, token, id, form.request())
}

func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, token, id)
}

// Query applies search, tab and sort to items.
func (s *Service) Query(items []Supplier, filters shared.ListFilters) []Supplier {
	return listQuery.Apply(items, filters)
}

// Stats counts suppliers by supply type.
func (s *Service) Stats(items []Supplier) Stats {
	return Stats{
		Total:     len(items),
		Medicine:  shared.Count(items, bySupplyType("Medicine")),
		Equipment: shared.Count(items, bySupplyType("Equipment")),
	}
}

// Document builds the supplier report for the filtered list.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	stats := s.Stats(filtered)

	rows := make([][]string, 0, len(filtered))
	for _, sp := range filtered {
		rows = append(rows, []string{
			strconv.FormatInt(sp.SupplierID, 10), sp.SupplierName, sp.Company, sp.Email, sp.PhoneNumber, sp.SupplyType,
		})
	}
	fields := []report.Field{{Label: "Supply Type", Value: filters.Tab}}
	if filters.Search != "" {
		fields = append(fields, report.Field{Label: "Search", Value: filters.Search})
	}
	return report.Document{
		Name:        "supplier-report",
		Title:       "Supplier Report",
		GeneratedAt: s.now(),
		Filters:     fields,
		Columns:     []string{"Supplier ID", "Supplier Name", "Company", "Email", "Phone", "Supply Type"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Total Suppliers", Value: strconv.Itoa(stats.Total)},
			{Label: "Medicine Suppliers", Value: strconv.Itoa(stats.Medicine)},
			{Label: "Equipment Suppliers", Value: strconv.Itoa(stats.Equipment)},
		},
	}, nil
}
