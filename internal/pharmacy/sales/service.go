package sales

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies sale rules on top of the backend collection.
type Service struct {
	repo      Repository
	validator *internalShared.Validator
	now       func() time.Time
}

func NewService(repo Repository, validator *internalShared.Validator) *Service {
	if validator == nil {
		validator = internalShared.NewValidator()
	}
	return &Service{repo: repo, validator: validator, now: time.Now}
}

func (s *Service) List(ctx context.Context, token string) ([]Sale, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, form Form) (Sale, error) {
	if err := s.validate(form); err != nil {
		return Sale{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Sale, error) {
	if id <= 0 {
		return Sale{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Sale{}, err
	}
	return s.repo.Update(ctx, token, id, form.request())
}

func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, token, id)
}

func (s *Service) Query(items []Sale, filters shared.ListFilters) []Sale {
	return listQuery.Apply(items, filters)
}

// Stats totals revenue and counts sales by status.
func (s *Service) Stats(items []Sale) Stats {
	return Stats{
		Count:     len(items),
		Revenue:   Revenue(items),
		Completed: shared.Count(items, byStatus("Completed")),
		Pending:   shared.Count(items, byStatus("Pending")),
	}
}

// Revenue sums the amount of every sale.
func Revenue(items []Sale) decimal.Decimal {
	return shared.Sum(items, func(s Sale) decimal.Decimal { return s.Amount })
}

// Document builds the sales report for the filtered list.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	stats := s.Stats(filtered)

	rows := make([][]string, 0, len(filtered))
	for _, sale := range filtered {
		rows = append(rows, []string{
			strconv.FormatInt(sale.SaleID, 10), sale.SaleType, sale.Date, sale.Customer, shared.Money(sale.Amount), sale.Status,
		})
	}
	return report.Document{
		Name:        "sales-report",
		Title:       "Sales Report",
		GeneratedAt: s.now(),
		Filters:     []report.Field{{Label: "Status", Value: filters.Tab}, {Label: "Search", Value: filters.Search}},
		Columns:     []string{"Sale ID", "Sale Type", "Date", "Customer", "Amount", "Status"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Total Sales", Value: strconv.Itoa(stats.Count)},
			{Label: "Total Revenue", Value: shared.Money(stats.Revenue)},
			{Label: "Completed", Value: strconv.Itoa(stats.Completed)},
			{Label: "Pending", Value: strconv.Itoa(stats.Pending)},
		},
	}, nil
}
