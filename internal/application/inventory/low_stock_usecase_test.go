package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

type consumptionStub struct {
	rows []repository.PartConsumption
}

func (s consumptionStub) ListOrderFacts(context.Context, repository.ReportFilter) ([]repository.OrderFact, error) {
	return nil, nil
}

func (s consumptionStub) TopConsumedParts(context.Context, repository.ReportFilter, int) ([]repository.PartConsumption, error) {
	return s.rows, nil
}

func TestListLowStock_OrdenaPorDeficitYConsumo(t *testing.T) {
	store := memstore.New()
	store.AddPart(entity.Part{ID: "a", Code: "A", CurrentQuantity: d("1"), MinQuantity: d("2"), Active: true})
	store.AddPart(entity.Part{ID: "b", Code: "B", CurrentQuantity: d("0"), MinQuantity: d("4"), Active: true})
	store.AddPart(entity.Part{ID: "c", Code: "C", CurrentQuantity: d("3"), MinQuantity: d("4"), Active: true})
	store.AddPart(entity.Part{ID: "ok", Code: "OK", CurrentQuantity: d("9"), MinQuantity: d("4"), Active: true})
	store.AddPart(entity.Part{ID: "off", Code: "OFF", CurrentQuantity: d("0"), MinQuantity: d("4"), Active: false})

	uc := inventory.NewLowStockUseCase(store.Parts(), consumptionStub{rows: []repository.PartConsumption{
		{PartID: "c", Total: d("30")},
		{PartID: "a", Total: d("2")},
	}})

	items, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "B", items[0].Code)
	assert.True(t, items[0].SuggestedOrderQty.Equal(d("6")))
	// A y C empatan en déficit 1: gana el de mayor consumo.
	assert.Equal(t, "C", items[1].Code)
	assert.Equal(t, "A", items[2].Code)
	assert.Equal(t, 3, items[2].Priority)
	assert.True(t, items[1].ConsumedLast90d.Equal(d("30")))
}

func TestListLowStock_SinRepuestosDevuelveListaVacia(t *testing.T) {
	uc := inventory.NewLowStockUseCase(memstore.New().Parts(), nil)
	items, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
