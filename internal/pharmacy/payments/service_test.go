package payments

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
	items []Payment
	sent  []any
}

func (s *stubRepository) List(ctx context.Context, token string) ([]Payment, error) {
	return s.items, nil
}

func (s *stubRepository) Get(ctx context.Context, token string, id int64) (Payment, error) {
	return Payment{PaymentID: id}, nil
}

func (s *stubRepository) Create(ctx context.Context, token string, body any) (Payment, error) {
	s.sent = append(s.sent, body)
	return Payment{}, nil
}

func (s *stubRepository) Update(ctx context.Context, token string, id int64, body any) (Payment, error) {
	s.sent = append(s.sent, body)
	return Payment{}, nil
}

func (s *stubRepository) Delete(ctx context.Context, token string, id int64) error { return nil }

func samplePayments() []Payment {
	return []Payment{
		{PaymentID: 1, PaymentType: "Bank Transfer", Date: "2025-01-10", PaymentBy: "MedSupply Co", Amount: decimal.NewFromInt(15000), Status: "Completed"},
		{PaymentID: 2, PaymentType: "Cash", Date: "2025-02-11", PaymentBy: "HealthCorp", Amount: decimal.NewFromInt(2500), Status: "Pending"},
		{PaymentID: 3, PaymentType: "Credit Card", Date: "2025-03-01", PaymentBy: "MedSupply Co", Amount: decimal.NewFromInt(7200), Status: "completed"},
		{PaymentID: 4, PaymentType: "Digital Wallet", Date: "2025-03-05", PaymentBy: "PharmaDirect", Amount: decimal.NewFromInt(300), Status: "Failed"},
	}
}

func TestValidation(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, internalShared.NewValidator())

	_, err := svc.Create(context.Background(), "t", Form{PaymentType: "Barter", Date: "", PaymentBy: "HealthCorp", Amount: "abc", Status: "Completed"})
	fe, ok := internalShared.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Payment type must be one of: Cash, Bank Transfer, Credit Card, Digital Wallet, Cheque", fe["paymentType"])
	assert.Equal(t, "Date is required", fe["date"])
	assert.Equal(t, "Amount must be greater than 0", fe["amount"])
	assert.Empty(t, repo.sent)

	_, err = svc.Create(context.Background(), "t", Form{PaymentType: "Bank Transfer", Date: "2025-03-01", PaymentBy: "HealthCorp", Amount: "1999.99", Status: "Pending"})
	require.NoError(t, err)
	require.Len(t, repo.sent, 1)
}

func TestQueryStatusAndTypeFilters(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	items := samplePayments()

	completed := svc.Query(items, shared.ListFilters{Status: "completed", Type: shared.TabAll, Sort: shared.SortNewest})
	require.Len(t, completed, 2)
	assert.Equal(t, int64(3), completed[0].PaymentID)

	cash := svc.Query(items, shared.ListFilters{Status: shared.TabAll, Type: "cash", Sort: shared.SortNewest})
	require.Len(t, cash, 1)

	medsupply := svc.Query(items, shared.ListFilters{Search: "medsupply", Status: shared.TabAll, Type: shared.TabAll, Sort: "amount-low"})
	require.Len(t, medsupply, 2)
	assert.Equal(t, int64(3), medsupply[0].PaymentID)
}

func TestStats(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	stats := svc.Stats(samplePayments())
	assert.True(t, decimal.NewFromInt(25000).Equal(stats.Total))
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.ByType["Cash"])
	assert.Equal(t, 75, stats.SuccessRate)
}

func TestDocumentMatchesPaymentReport(t *testing.T) {
	svc := NewService(&stubRepository{items: samplePayments()}, nil)
	filters := shared.ListFilters{Status: "completed", Type: shared.TabAll, Sort: shared.SortNewest}

	doc, err := svc.Document(context.Background(), "t", filters)
	require.NoError(t, err)
	assert.Equal(t, "Filters Applied: Status: completed, Type: all", doc.FilterLine())
	assert.Equal(t, "Page 1 of 1 | Total Records: 2", doc.FooterLine())
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"3", "Credit Card", "01 Mar 2025", "MedSupply Co", "Rs. 7,200", "completed"}, doc.Rows[0])

	summary := map[string]string{}
	for _, f := range doc.Summary {
		summary[f.Label] = f.Value
	}
	assert.Equal(t, "4", summary["Total Transactions"])
	assert.Equal(t, "2", summary["Filtered Transactions"])
	assert.Equal(t, "Rs. 25,000", summary["Total Amount (All)"])
	assert.Equal(t, "Rs. 22,200", summary["Filtered Amount"])
	assert.Equal(t, "3", summary["Completed Payments"])
	assert.Equal(t, "75%", summary["Success Rate"])
}
