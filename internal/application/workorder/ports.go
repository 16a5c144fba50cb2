package workorder

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios de la OT atados a ella.
type TxRunner interface {
	RunWorkOrder(ctx context.Context, fn func(
		orderRepo repository.WorkOrderRepository,
		historyRepo repository.HistoryRepository,
		pauseRepo repository.PauseRepository,
	) error) error
}
