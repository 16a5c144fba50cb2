package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para repuestos.
// Las escrituras de cantidad ocurren solo dentro de la transacción del libro de stock.
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	// Update persiste los datos maestros; nunca toca CurrentQuantity.
	Update(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	GetByCode(ctx context.Context, code string) (*entity.Part, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Part, error)
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Part, error)
	// ListLowStock repuestos activos con stock actual <= mínimo, mayor déficit primero.
	ListLowStock(ctx context.Context) ([]*entity.Part, error)
}
