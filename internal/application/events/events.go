// Package events define los eventos de negocio que emiten los motores de OT e inventario
// y el despachador que los reparte, tras el commit, a suscriptores independientes.
package events

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Nombres de evento.
const (
	NameOrderCreated      = "order.created"
	NameOrderUpdated      = "order.updated"
	NameOrderStateChanged = "order.state_changed"
	NamePauseStarted      = "order.pause_started"
	NamePauseEnded        = "order.pause_ended"
	NameMovementApplied   = "inventory.movement_applied"
	NameLowStockReached   = "inventory.low_stock"
	NamePartCreated       = "inventory.part_created"
	NamePartUpdated       = "inventory.part_updated"
)

// Event evento de negocio. Los eventos llevan copias de las entidades, no punteros.
type Event interface {
	Name() string
}

// Publisher publica eventos ya confirmados. Nunca devuelve error al caso de uso.
type Publisher interface {
	Publish(ctx context.Context, evts ...Event)
}

type OrderCreated struct {
	Order entity.WorkOrder
	Actor string
	At    time.Time
}

func (OrderCreated) Name() string { return NameOrderCreated }

// OrderUpdated cambio de planificación (prioridad, fecha compromiso, mecánico).
type OrderUpdated struct {
	Order entity.WorkOrder
	Actor string
	At    time.Time
}

func (OrderUpdated) Name() string { return NameOrderUpdated }

type OrderStateChanged struct {
	Order         entity.WorkOrder
	PreviousState entity.State
	NewState      entity.State
	Actor         string
	At            time.Time
}

func (OrderStateChanged) Name() string { return NameOrderStateChanged }

type PauseStarted struct {
	Order entity.WorkOrder
	Pause entity.Pause
	Actor string
}

func (PauseStarted) Name() string { return NamePauseStarted }

// PauseEnded se emite al finalizar una pausa, explícitamente o por un cambio de estado.
type PauseEnded struct {
	Order entity.WorkOrder
	Pause entity.Pause
	Actor string
}

func (PauseEnded) Name() string { return NamePauseEnded }

type MovementApplied struct {
	Part     entity.Part
	Movement entity.StockMovement
}

func (MovementApplied) Name() string { return NameMovementApplied }

// LowStockReached el saldo quedó en o bajo el mínimo tras una salida o ajuste.
type LowStockReached struct {
	Part  entity.Part
	Actor string
}

func (LowStockReached) Name() string { return NameLowStockReached }

type PartCreated struct {
	Part  entity.Part
	Actor string
}

func (PartCreated) Name() string { return NamePartCreated }

type PartUpdated struct {
	Part  entity.Part
	Actor string
}

func (PartUpdated) Name() string { return NamePartUpdated }
