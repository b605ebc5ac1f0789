package medicines

import (
	"context"
	"strconv"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies medicine rules on top of the backend collection.
type Service struct {
	repo      Repository
	validator *internalShared.Validator
	now       func() time.Time
}

// NewService constructs a Service. Expiry checks use the validator's clock.
func NewService(repo Repository, validator *internalShared.Validator) *Service {
	if validator == nil {
		validator = internalShared.NewValidator()
	}
	return &Service{repo: repo, validator: validator, now: validator.Today}
}

func (s *Service) List(ctx context.Context, token string) ([]Medicine, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (Medicine, error) {
	if id <= 0 {
		return Medicine{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, form Form) (Medicine, error) {
	if err := s.validate(form); err != nil {
		return Medicine{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Medicine, error) {
	if id <= 0 {
		return Medicine{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Medicine{}, err
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
func (s *Service) Query(items []Medicine, filters shared.ListFilters) []Medicine {
	return listQuery(s.now()).Apply(items, filters)
}

// Stats counts short and expired medicines.
func (s *Service) Stats(items []Medicine) Stats {
	now := s.now()
	low := shared.Count(items, Medicine.LowStock)
	return Stats{
		Total:           len(items),
		LowStock:        low,
		Expired:         shared.Count(items, func(m Medicine) bool { return IsExpired(m, now) }),
		InventoryStatus: InventoryStatus(low),
	}
}

// Document builds the medicine inventory report for the filtered list.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	stats := s.Stats(filtered)

	rows := make([][]string, 0, len(filtered))
	for _, m := range filtered {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.MedicineName,
			m.MedicineType,
			m.BatchNumber,
			strconv.Itoa(m.NoOfMedicines),
			m.ExpiredDate,
			shared.Money(m.Price),
			m.Status,
		})
	}
	fields := []report.Field{{Label: "Group", Value: filters.Tab}}
	if filters.Search != "" {
		fields = append(fields, report.Field{Label: "Search", Value: filters.Search})
	}
	return report.Document{
		Name:        "medicine-inventory",
		Title:       "Medicine Inventory Report",
		GeneratedAt: time.Now(),
		Filters:     fields,
		Columns:     []string{"ID", "Medicine", "Type", "Batch", "Quantity", "Expiry", "Price", "Status"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Total Medicines", Value: strconv.Itoa(stats.Total)},
			{Label: "Low Stock (< 10)", Value: strconv.Itoa(stats.LowStock)},
			{Label: "Expired", Value: strconv.Itoa(stats.Expired)},
			{Label: "Inventory Status", Value: stats.InventoryStatus},
		},
	}, nil
}
