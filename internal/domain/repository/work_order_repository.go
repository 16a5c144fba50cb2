package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia para OTs.
type WorkOrderRepository interface {
	// Create falla con DuplicateActiveOrderError si el vehículo ya tiene una OT activa
	// y con ErrDuplicate si el folio existe.
	Create(ctx context.Context, order *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	// GetForUpdate bloquea la fila de la OT; las mutaciones de una misma OT se linealizan aquí.
	GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error)
	Update(ctx context.Context, order *entity.WorkOrder) error
}

// HistoryRepository tramos de permanencia por estado. A lo sumo un tramo abierto por OT.
type HistoryRepository interface {
	Open(ctx context.Context, segment *entity.HistoryStateSegment) error
	// CloseOpen cierra el tramo abierto de la OT; devuelve nil si no había ninguno.
	CloseOpen(ctx context.Context, orderID string, at time.Time) (*entity.HistoryStateSegment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.HistoryStateSegment, error)
}

// PauseRepository pausas de mantenimiento. A lo sumo una pausa abierta por OT.
type PauseRepository interface {
	// Create falla con AlreadyPausedError si el índice parcial detecta otra pausa abierta.
	Create(ctx context.Context, pause *entity.Pause) error
	// GetOpen devuelve la pausa abierta o domain.ErrNotFound.
	GetOpen(ctx context.Context, orderID string) (*entity.Pause, error)
	Close(ctx context.Context, id string, at time.Time) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Pause, error)
}
