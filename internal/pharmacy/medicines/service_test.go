package medicines

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
)

type stubRepository struct {
	items []Medicine
	sent  []any
}

func (s *stubRepository) List(ctx context.Context, token string) ([]Medicine, error) {
	return s.items, nil
}

func (s *stubRepository) Get(ctx context.Context, token string, id int64) (Medicine, error) {
	return Medicine{}, shared.ErrNotFound
}

func (s *stubRepository) Create(ctx context.Context, token string, body any) (Medicine, error) {
	s.sent = append(s.sent, body)
	return Medicine{}, nil
}

func (s *stubRepository) Update(ctx context.Context, token string, id int64, body any) (Medicine, error) {
	s.sent = append(s.sent, body)
	return Medicine{}, nil
}

func (s *stubRepository) Delete(ctx context.Context, token string, id int64) error { return nil }

var today = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	v := internalShared.NewValidator().WithClock(func() time.Time { return today })
	return NewService(repo, v)
}

func validForm() Form {
	return Form{
		MedicineName:  "Paracetamol",
		MedicineType:  "Tablet",
		NoOfMedicines: "50",
		Status:        "Available",
		ExpiredDate:   "2026-01-01",
		Price:         "12.50",
		BatchNumber:   "B-100",
		Manufacturer:  "Acme Pharma",
	}
}

func TestCreateConvertsFormToRequest(t *testing.T) {
	repo := &stubRepository{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "t", validForm())
	require.NoError(t, err)
	require.Len(t, repo.sent, 1)
	req := repo.sent[0].(medicineRequest)
	assert.Equal(t, 50, req.NoOfMedicines)
	assert.Equal(t, "12.5", req.Price.String())
}

func TestCreateValidation(t *testing.T) {
	repo := &stubRepository{}
	svc := newTestService(repo)

	form := validForm()
	form.ExpiredDate = "2025-06-15"
	form.NoOfMedicines = "0"
	form.Price = "-1"
	form.Status = "Gone"
	_, err := svc.Create(context.Background(), "t", form)

	fe, ok := internalShared.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Expiry date must be a future date", fe["expiredDate"])
	assert.Equal(t, "Quantity must be a positive number", fe["noOfMedicines"])
	assert.Equal(t, "Price must be greater than 0", fe["price"])
	assert.Equal(t, "Status must be one of: Available, Low Stock, Expired", fe["status"])
	assert.Empty(t, repo.sent)

	form = validForm()
	form.Status = "Low Stock"
	_, err = svc.Create(context.Background(), "t", form)
	assert.NoError(t, err)
}

func sampleMedicines() []Medicine {
	return []Medicine{
		{ID: 1, MedicineName: "Amoxicillin", NoOfMedicines: 5, Status: "Low Stock", ExpiredDate: "2026-02-01", Price: decimal.NewFromInt(20)},
		{ID: 2, MedicineName: "Cetirizine", NoOfMedicines: 80, Status: "Available", ExpiredDate: "2025-06-14", Manufacturer: "Zen Labs"},
		{ID: 3, MedicineName: "Benadryl", NoOfMedicines: 30, Status: "Available", ExpiredDate: "2025-06-15"},
	}
}

func TestQueryTabs(t *testing.T) {
	svc := newTestService(&stubRepository{})
	items := sampleMedicines()

	expired := svc.Query(items, shared.ListFilters{Tab: "expired", Sort: shared.SortNewest})
	require.Len(t, expired, 1)
	assert.Equal(t, int64(2), expired[0].ID)

	low := svc.Query(items, shared.ListFilters{Tab: "lowstock", Sort: shared.SortNewest})
	require.Len(t, low, 1)
	assert.Equal(t, "Amoxicillin", low[0].MedicineName)

	available := svc.Query(items, shared.ListFilters{Tab: "available", Sort: "name"})
	require.Len(t, available, 2)
	assert.Equal(t, "Benadryl", available[0].MedicineName)

	byQty := svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "quantity"})
	assert.Equal(t, 80, byQty[0].NoOfMedicines)

	search := svc.Query(items, shared.ListFilters{Search: "zen", Tab: shared.TabAll})
	require.Len(t, search, 1)
}

func TestStatsAndInventoryStatus(t *testing.T) {
	svc := newTestService(&stubRepository{})
	stats := svc.Stats(sampleMedicines())
	assert.Equal(t, Stats{Total: 3, LowStock: 1, Expired: 1, InventoryStatus: "Warning"}, stats)

	assert.Equal(t, "Good", InventoryStatus(0))
	assert.Equal(t, "Warning", InventoryStatus(4))
	assert.Equal(t, "Critical", InventoryStatus(5))
}

func TestDocumentRows(t *testing.T) {
	svc := newTestService(&stubRepository{items: sampleMedicines()})
	doc, err := svc.Document(context.Background(), "t", shared.ListFilters{Tab: "lowstock", Sort: shared.SortNewest})
	require.NoError(t, err)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "Rs. 20.00", doc.Rows[0][6])
	assert.Equal(t, "Warning", doc.Summary[3].Value)
}
