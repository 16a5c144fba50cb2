package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: repuestos activos en o bajo su mínimo.
// Combina el stock con el consumo reciente para priorizar los más críticos.
type LowStockUseCase struct {
	partRepo   repository.PartRepository
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(partRepo repository.PartRepository, reportRepo repository.ReportRepository) *LowStockUseCase {
	return &LowStockUseCase{partRepo: partRepo, reportRepo: reportRepo, now: time.Now}
}

// ListLowStock devuelve los repuestos en mínimo con su cantidad sugerida,
// ordenados por déficit y luego por consumo de los últimos 90 días.
func (uc *LowStockUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	parts, err := uc.partRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return []dto.LowStockItemDTO{}, nil
	}

	// El consumo es informativo: si la consulta falla la lista sale igual.
	end := uc.now()
	start := end.AddDate(0, 0, -90)
	consumed := make(map[string]decimal.Decimal)
	if uc.reportRepo != nil {
		rows, _ := uc.reportRepo.TopConsumedParts(ctx, repository.ReportFilter{From: &start, To: &end}, 500)
		for _, r := range rows {
			consumed[r.PartID] = r.Total
		}
	}

	items := make([]dto.LowStockItemDTO, 0, len(parts))
	for _, p := range parts {
		items = append(items, dto.LowStockItemDTO{
			PartID:            p.ID,
			Code:              p.Code,
			Description:       p.Description,
			Unit:              p.Unit,
			CurrentQuantity:   p.CurrentQuantity,
			MinQuantity:       p.MinQuantity,
			Deficit:           p.MinQuantity.Sub(p.CurrentQuantity),
			SuggestedOrderQty: inventory.SuggestedReorder(p.CurrentQuantity, p.MinQuantity),
			ConsumedLast90d:   consumed[p.ID],
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Deficit.Equal(b.Deficit) {
			return a.Deficit.GreaterThan(b.Deficit)
		}
		return a.ConsumedLast90d.GreaterThan(b.ConsumedLast90d)
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}
