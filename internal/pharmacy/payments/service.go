package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/report"
)

// Service applies payment rules on top of the backend collection.
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

func (s *Service) List(ctx context.Context, token string) ([]Payment, error) {
	return s.repo.List(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (Payment, error) {
	if id <= 0 {
		return Payment{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, form Form) (Payment, error) {
	if err := s.validate(form); err != nil {
		return Payment{}, err
	}
	return s.repo.Create(ctx, token, form.request())
}

func (s *Service) Update(ctx context.Context, token string, id int64, form Form) (Payment, error) {
	if id <= 0 {
		return Payment{}, shared.ErrInvalidID
	}
	if err := s.validate(form); err != nil {
		return Payment{}, err
	}
	return s.repo.Update(ctx, token, id, form.request())
}

func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, token, id)
}

// Query applies the status and type selects, then search and sort.
func (s *Service) Query(items []Payment, filters shared.ListFilters) []Payment {
	selected := shared.Filter(items, func(p Payment) bool { return matchesFilters(p, filters) })
	return listQuery.Apply(selected, filters)
}

// Stats totals amounts and counts payments by type and status.
func (s *Service) Stats(items []Payment) Stats {
	stats := Stats{
		Total:   TotalAmount(items),
		Count:   len(items),
		ByType:  make(map[string]int, len(PaymentTypes)),
		Pending: shared.Count(items, isPending),
	}
	for _, kind := range PaymentTypes {
		stats.ByType[kind] = shared.Count(items, ofType(kind))
	}
	if stats.Count > 0 {
		rate := decimal.NewFromInt(int64(stats.Count - stats.Pending)).
			Div(decimal.NewFromInt(int64(stats.Count))).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		stats.SuccessRate = int(rate.IntPart())
	}
	return stats
}

// TotalAmount sums the amount of every payment.
func TotalAmount(items []Payment) decimal.Decimal {
	return shared.Sum(items, func(p Payment) decimal.Decimal { return p.Amount })
}

// Document builds the payment report: filter line, per-type summary and a
// record count footer.
func (s *Service) Document(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error) {
	items, err := s.List(ctx, token)
	if err != nil {
		return report.Document{}, err
	}
	filtered := s.Query(items, filters)
	all := s.Stats(items)

	rows := make([][]string, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, []string{
			orNA(strconv.FormatInt(p.PaymentID, 10)),
			orNA(p.PaymentType),
			orNA(view.FormatDay(p.Date)),
			orNA(p.PaymentBy),
			view.FormatCurrency(p.Amount),
			orNA(p.Status),
		})
	}

	fields := []report.Field{{Label: "Status", Value: filters.Status}, {Label: "Type", Value: filters.Type}}
	if filters.Search != "" {
		fields = append(fields, report.Field{Label: "Search", Value: `"` + filters.Search + `"`})
	}
	return report.Document{
		Name:        "payment-report",
		Title:       "Payment Report",
		GeneratedAt: s.now(),
		Filters:     fields,
		Columns:     []string{"Payment ID", "Payment Type", "Date", "Payment By (Supplier)", "Amount", "Status"},
		Rows:        rows,
		Summary: []report.Field{
			{Label: "Total Transactions", Value: strconv.Itoa(all.Count)},
			{Label: "Filtered Transactions", Value: strconv.Itoa(len(filtered))},
			{Label: "Total Amount (All)", Value: view.FormatCurrency(all.Total)},
			{Label: "Filtered Amount", Value: view.FormatCurrency(TotalAmount(filtered))},
			{Label: "Bank Transfers", Value: strconv.Itoa(all.ByType["Bank Transfer"])},
			{Label: "Cash Payments", Value: strconv.Itoa(all.ByType["Cash"])},
			{Label: "Card Payments", Value: strconv.Itoa(all.ByType["Credit Card"])},
			{Label: "Digital Wallets", Value: strconv.Itoa(all.ByType["Digital Wallet"])},
			{Label: "Pending Payments", Value: strconv.Itoa(all.Pending)},
			{Label: "Completed Payments", Value: strconv.Itoa(all.Count - all.Pending)},
			{Label: "Success Rate", Value: fmt.Sprintf("%d%%", all.SuccessRate)},
		},
		Footer: fmt.Sprintf("Page 1 of 1 | Total Records: %d", len(filtered)),
	}, nil
}

func orNA(v string) string {
	if v == "" || v == "0" {
		return "N/A"
	}
	return v
}
