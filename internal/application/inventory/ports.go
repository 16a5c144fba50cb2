package inventory

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que movimiento y saldo se confirmen o reviertan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.WorkOrderRepository,
	) error) error
}
