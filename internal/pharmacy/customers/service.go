package customers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies customer rules on top of the backend collection.
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

// List fetches every customer.
func (s *Service) List(ctx context.Context, token string) ([]Customer, error) {
	return s.repo.List(ctx, token)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, token string, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

// Create validates form and stores a new customer.
func (s *Service) Create(ctx context.Context, token string, form Form) (Customer, error) {
	if err := s.validate(form); err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

// Update validates form and replaces customer id.
func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Customer{}, err
	}
	return s.repo.Update(ctx, token, id, form.request())
}

// Delete removes customer id.
func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, token, id)
}

// Query applies search, tab and sort to items.
func (s *Service) Query(items []Customer, filters shared.ListFilters) []Customer {
	return listQuery.Apply(items, filters)
}

// Stats counts customers by gender.
func (s *Service) Stats(items []Customer) Stats {
	return Stats{
		Total:  len(items),
		Male:   shared.Count(items, byGender("Male")),
		Female: shared.Count(items, byGender("Female")),
	}
}

// Document builds the customer report for the filtered list.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	stats := s.Stats(filtered)

	rows := make([][]string, 0, len(filtered))
	for _, c := range filtered {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.CustomerName, c.PhoneNumber, c.Email, c.Gender})
	}
	return report.Document{
		Name:        "customer-report",
		Title:       "Customer Report",
		GeneratedAt: s.now(),
		Filters:     filterFields(filters),
		Columns:     []string{"Customer ID", "Name", "Phone", "Email", "Gender"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Total Customers", Value: strconv.Itoa(stats.Total)},
			{Label: "Male Customers", Value: strconv.Itoa(stats.Male)},
			{Label: "Female Customers", Value: strconv.Itoa(stats.Female)},
		},
	}, nil
}

func filterFields(f shared.ListFilters) []report.Field {
	fields := []report.Field{{Label: "Gender", Value: f.Tab}}
	if f.Search != "" {
		fields = append(fields, report.Field{Label: "Search", Value: f.Search})
	}
	fields = append(fields, report.Field{Label: "Sort", Value: strings.ReplaceAll(f.Sort, "-", " ")})
	return fields
}
