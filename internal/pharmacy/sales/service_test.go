package sales

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
)

type stubRepository struct {
	items []Sale
	sent  []any
}

func (s *stubRepository) List(ctx context.Context, token string) ([]Sale, error) { return s.items, nil }

func (s *stubRepository) Get(ctx context.Context, token string, id int64) (Sale, error) {
	return Sale{SaleID: id}, nil
}

func (s *stubRepository) Create(ctx context.Context, token string, body any) (Sale, error) {
	s.sent = append(s.sent, body)
	return Sale{}, nil
}

func (s *stubRepository) Update(ctx context.Context, token string, id int64, body any) (Sale, error) {
	s.sent = append(s.sent, body)
	return Sale{}, nil
}

func (s *stubRepository) Delete(ctx context.Context, token string, id int64) error { return nil }

func sampleSales() []Sale {
	return []Sale{
		{SaleID: 1, SaleType: "Medicine", Date: "2025-01-05", Customer: "Ravi", Amount: decimal.RequireFromString("120.50"), Status: "Completed"},
		{SaleID: 2, SaleType: "Equipment", Date: "2025-03-10", Customer: "Anil", Amount: decimal.RequireFromString("900"), Status: "pending"},
		{SaleID: 3, SaleType: "Medicine", Date: "2025-02-01", Customer: "Meera", Amount: decimal.RequireFromString("45"), Status: "Cancelled"},
	}
}

func TestValidation(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, internalShared.NewValidator())

	_, err := svc.Create(context.Background(), "t", Form{SaleType: "Medicine", Date: "05/01/2025", Customer: "Ravi", Amount: "0", Status: "Done"})
	fe, ok := internalShared.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Date must be a valid date (YYYY-MM-DD)", fe["date"])
	assert.Equal(t, "Amount must be greater than 0", fe["amount"])
	assert.Equal(t, "Status must be one of: Completed, Pending, Cancelled", fe["status"])
	assert.Empty(t, repo.sent)

	_, err = svc.Create(context.Background(), "t", Form{SaleType: "Medicine", Date: "2025-01-05", Customer: "Ravi", Amount: "120.50", Status: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, "120.5", repo.sent[0].(saleRequest).Amount.String())
}

func TestQuery(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	items := sampleSales()

	newest := svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: shared.SortNewest})
	assert.Equal(t, []int64{2, 3, 1}, ids(newest))

	pending := svc.Query(items, shared.ListFilters{Tab: "pending", Sort: shared.SortNewest})
	require.Len(t, pending, 1)
	assert.Equal(t, "Anil", pending[0].Customer)

	assert.Equal(t, []int64{2, 1, 3}, ids(svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "amount-high"})))
	assert.Equal(t, []int64{3, 1, 2}, ids(svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "amount-low"})))
	assert.Equal(t, []int64{2, 3, 1}, ids(svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "customer"})))

	found := svc.Query(items, shared.ListFilters{Search: "120.5", Tab: shared.TabAll})
	assert.Equal(t, []int64{1}, ids(found))
}

func TestStats(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	stats := svc.Stats(sampleSales())
	assert.Equal(t, 3, stats.Count)
	assert.True(t, decimal.RequireFromString("1065.50").Equal(stats.Revenue))
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Pending)
}

func ids(items []Sale) []int64 {
	out := make([]int64, 0, len(items))
	for _, s := range items {
		out = append(out, s.SaleID)
	}
	return out
}
