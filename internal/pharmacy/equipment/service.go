package equipment

import (
	"context"
	"strconv"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies equipment rules on top of the backend collection.
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

func (s *Service) List(ctx context.Context, token string) ([]Equipment, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (Equipment, error) {
	if id <= 0 {
		return Equipment{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, form Form) (Equipment, error) {
	if err := s.validate(form); err != nil {
		return Equipment{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Equipment, error) {
	if id <= 0 {
		return Equipment{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Equipment{}, err
	}
	return s.repo.Update(ctx, token, id, form.request())
}

func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, token, id)
}

func (s *Service) Query(items []Equipment, filters shared.ListFilters) []Equipment {
	return listQuery.Apply(items, filters)
}

func (s *Service) Stats(items []Equipment) Stats {
	return Stats{
		Total:      len(items),
		TotalUnits: TotalUnits(items),
		LowStock:   shared.Count(items, Equipment.LowStock),
	}
}

// Document builds the equipment stock report for the filtered list.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	stats := s.Stats(filtered)

	rows := make([][]string, 0, len(filtered))
	for _, e := range filtered {
		state := "In Stock"
		if e.LowStock() {
			state = "Low Stock"
		}
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.EquipmentName, e.Model, strconv.Itoa(e.NoOfEquipments), state})
	}
	return report.Document{
		Name:        "equipment-stock",
		Title:       "Equipment Stock Report",
		GeneratedAt: s.now(),
		Filters:     []report.Field{{Label: "Stock", Value: filters.Tab}, {Label: "Search", Value: filters.Search}},
		Columns:     []string{"ID", "Equipment", "Model", "Units", "Stock"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Equipment Items", Value: strconv.Itoa(stats.Total)},
			{Label: "Total Units", Value: strconv.Itoa(stats.TotalUnits)},
			{Label: "Low Stock (< 5)", Value: strconv.Itoa(stats.LowStock)},
		},
	}, nil
}
