package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
)

type stubRepository struct {
	items   []Customer
	created []any
	err     error
}

func (s *stubRepository) List(ctx context.Context, token string) ([]Customer, error) {
	return s.items, s.err
}

func (s *stubRepository) Get(ctx context.Context, token string, id int64) (Customer, error) {
	for _, c := range s.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, shared.ErrNotFound
}

func (s *stubRepository) Create(ctx context.Context, token string, body any) (Customer, error) {
	s.created = append(s.created, body)
	return Customer{ID: 99}, s.err
}

func (s *stubRepository) Update(ctx context.Context, token string, id int64, body any) (Customer, error) {
	s.created = append(s.created, body)
	return Customer{ID: id}, s.err
}

func (s *stubRepository) Delete(ctx context.Context, token string, id int64) error {
	return s.err
}

func sampleCustomers() []Customer {
	return []Customer{
		{ID: 1, CustomerName: "Asha Rao", Email: "asha@example.com", Gender: "Female", CreatedAt: "2025-01-01T10:00:00"},
		{ID: 2, CustomerName: "Ben Okafor", Email: "ben@example.com", Gender: "Male", CreatedAt: "2025-02-01T10:00:00"},
		{ID: 3, CustomerName: "Chris Lee", Email: "chris@example.com", Gender: "Other", CreatedAt: "2025-03-01T10:00:00"},
	}
}

func TestCreateRejectsInvalidFormWithoutCallingBackend(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, internalShared.NewValidator())

	_, err := svc.Create(context.Background(), "t", Form{CustomerName: "A", PhoneNumber: "5551234567", Email: "nope", Gender: "Robot"})
	require.Error(t, err)
	fe, ok := internalShared.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Customer name must be at least 2 characters", fe["customerName"])
	assert.Equal(t, "Phone number must be in format (XXX) XXX-XXXX", fe["phoneNumber"])
	assert.Equal(t, "Please enter a valid email address", fe["email"])
	assert.Equal(t, "Gender must be one of: Male, Female, Other", fe["gender"])
	assert.Empty(t, repo.created)
}

func TestCreateSendsRequestBody(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "t", Form{CustomerName: "Asha Rao", PhoneNumber: "(555) 123-4567", Email: "asha@example.com", Gender: "Female"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, customerRequest{CustomerName: "Asha Rao", PhoneNumber: "(555) 123-4567", Email: "asha@example.com", Gender: "Female"}, repo.created[0])
}

func TestUpdateRejectsInvalidID(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	_, err := svc.Update(context.Background(), "t", 0, Form{})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestQueryTabsSearchAndSort(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	items := sampleCustomers()

	got := svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: shared.SortNewest})
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)

	got = svc.Query(items, shared.ListFilters{Tab: "female", Sort: shared.SortNewest})
	require.Len(t, got, 1)
	assert.Equal(t, "Asha Rao", got[0].CustomerName)

	got = svc.Query(items, shared.ListFilters{Search: "BEN@", Tab: shared.TabAll, Sort: shared.SortNewest})
	require.Len(t, got, 1)

	got = svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "name-desc"})
	assert.Equal(t, "Chris Lee", got[0].CustomerName)

	assert.Equal(t, int64(1), items[0].ID, "query must not reorder the input")
}

func TestStats(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	assert.Equal(t, Stats{Total: 3, Male: 1, Female: 1}, svc.Stats(sampleCustomers()))
}

func TestDocumentUsesFilteredRows(t *testing.T) {
	svc := NewService(&stubRepository{items: sampleCustomers()}, nil)
	doc, err := svc.Document(context.Background(), "t", shared.ListFilters{Tab: "male", Sort: shared.SortNewest})
	require.NoError(t, err)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, []string{"2", "Ben Okafor", "", "ben@example.com", "Male"}, doc.Rows[0])
	assert.Equal(t, "Customer Report", doc.Title)
	assert.Equal(t, "1", doc.Summary[0].Value)
}
