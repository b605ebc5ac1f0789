package equipment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
)

type stubRepository struct {
	items []Equipment
	sent  []any
}

func (s *stubRepository) List(ctx context.Context, token string) ([]Equipment, error) {
	return s.items, nil
}

func (s *stubRepository) Get(ctx context.Context, token string, id int64) (Equipment, error) {
	return Equipment{ID: id}, nil
}

func (s *stubRepository) Create(ctx context.Context, token string, body any) (Equipment, error) {
	s.sent = append(s.sent, body)
	return Equipment{}, nil
}

func (s *stubRepository) Update(ctx context.Context, token string, id int64, body any) (Equipment, error) {
	s.sent = append(s.sent, body)
	return Equipment{ID: id}, nil
}

func (s *stubRepository) Delete(ctx context.Context, token string, id int64) error { return nil }

func sampleEquipment() []Equipment {
	return []Equipment{
		{ID: 1, EquipmentName: "Thermometer", Model: "TH-1", NoOfEquipments: 3},
		{ID: 2, EquipmentName: "BP Monitor", Model: "Omron M2", NoOfEquipments: 12},
		{ID: 3, EquipmentName: "Nebulizer", Model: "NB-7", NoOfEquipments: 5},
	}
}

func TestValidation(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, internalShared.NewValidator())

	_, err := svc.Create(context.Background(), "t", Form{EquipmentName: "X", Model: "", NoOfEquipments: "abc"})
	fe, ok := internalShared.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Equipment name must be at least 2 characters", fe["equipmentName"])
	assert.Equal(t, "Model is required", fe["model"])
	assert.Equal(t, "Number of equipments must be a positive number", fe["noOfEquipments"])
	assert.Empty(t, repo.sent)

	_, err = svc.Update(context.Background(), "t", 2, Form{EquipmentName: "Scale", Model: "S-2", NoOfEquipments: "7"})
	require.NoError(t, err)
	assert.Equal(t, equipmentRequest{EquipmentName: "Scale", Model: "S-2", NoOfEquipments: 7}, repo.sent[0])
}

func TestQueryAndStats(t *testing.T) {
	svc := NewService(&stubRepository{}, nil)
	items := sampleEquipment()

	low := svc.Query(items, shared.ListFilters{Tab: "lowstock", Sort: shared.SortNewest})
	require.Len(t, low, 1)
	assert.Equal(t, "Thermometer", low[0].EquipmentName)

	byName := svc.Query(items, shared.ListFilters{Tab: shared.TabAll, Sort: "name"})
	assert.Equal(t, "BP Monitor", byName[0].EquipmentName)

	search := svc.Query(items, shared.ListFilters{Search: "omron", Tab: shared.TabAll})
	require.Len(t, search, 1)

	assert.Equal(t, Stats{Total: 3, TotalUnits: 20, LowStock: 1}, svc.Stats(items))
}

func TestDocument(t *testing.T) {
	svc := NewService(&stubRepository{items: sampleEquipment()}, nil)
	doc, err := svc.Document(context.Background(), "t", shared.ListFilters{Tab: shared.TabAll, Sort: shared.SortOldest})
	require.NoError(t, err)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, []string{"1", "Thermometer", "TH-1", "3", "Low Stock"}, doc.Rows[0])
	assert.Equal(t, "20", doc.Summary[1].Value)
}
