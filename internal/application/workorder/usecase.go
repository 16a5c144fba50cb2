// Package workorder orquesta el ciclo de vida de la OT: creación, transiciones, pausas y métricas.
package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

// MaxPauseReasonLen largo máximo del motivo de pausa.
const MaxPauseReasonLen = 100

// UseCase motor de la máquina de estados de la OT.
// Toda mutación bloquea la fila de la OT (SELECT FOR UPDATE) durante su transacción.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.WorkOrderRepository
	historyRepo  repository.HistoryRepository
	pauseRepo    repository.PauseRepository
	vehicleRepo  repository.VehicleRepository
	workshopRepo repository.WorkshopRepository
	publisher    events.Publisher
	now          func() time.Time
}

// Deps dependencias del caso de uso de OT.
type Deps struct {
	TxRunner  TxRunner
	Orders    repository.WorkOrderRepository
	History   repository.HistoryRepository
	Pauses    repository.PauseRepository
	Vehicles  repository.VehicleRepository
	Workshops repository.WorkshopRepository
	Publisher events.Publisher
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	return &UseCase{
		txRunner:     d.TxRunner,
		orderRepo:    d.Orders,
		historyRepo:  d.History,
		pauseRepo:    d.Pauses,
		vehicleRepo:  d.Vehicles,
		workshopRepo: d.Workshops,
		publisher:    d.Publisher,
		now:          time.Now,
	}
}

// newFolio folio corto de 8 caracteres hexadecimales en mayúsculas.
func newFolio() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateOrderInput datos de ingreso de una OT.
type CreateOrderInput struct {
	Folio       string
	VehicleID   string
	WorkshopID  string
	Priority    entity.Priority // vacío = MEDIA
	DueDate     *time.Time
	Technician  string
	Description string
}

// Create registra la OT en INGRESADO y abre su primer tramo de historial en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, in CreateOrderInput, actor string) (*entity.WorkOrder, error) {
	in.Folio = strings.TrimSpace(in.Folio)
	if in.Folio == "" {
		in.Folio = newFolio()
	}
	if in.VehicleID == "" {
		return nil, domain.NewValidationError("vehicle_id", "vehículo requerido")
	}
	if in.WorkshopID == "" {
		return nil, domain.NewValidationError("workshop_id", "taller requerido")
	}
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedia
	}
	if !in.Priority.Valid() {
		return nil, domain.NewValidationError("priority", "prioridad inválida: "+string(in.Priority))
	}
	now := uc.now()
	if in.DueDate != nil && in.DueDate.Before(now) {
		return nil, domain.NewValidationError("due_date", "la fecha compromiso no puede ser anterior al ingreso")
	}

	vehicle, err := uc.vehicleRepo.GetByID(ctx, in.VehicleID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("vehicle_id", "el vehículo no existe")
	}
	if err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}
	if _, err := uc.workshopRepo.GetByID(ctx, in.WorkshopID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("workshop_id", "el taller no existe")
		}
		return nil, fmt.Errorf("create work order: %w", err)
	}

	order := &entity.WorkOrder{
		ID:           uuid.New().String(),
		Folio:        in.Folio,
		VehicleID:    vehicle.ID,
		WorkshopID:   in.WorkshopID,
		VehiclePlate: vehicle.Plate,
		State:        entity.StateIngresado,
		Priority:     in.Priority,
		Active:       true,
		Description:  strings.TrimSpace(in.Description),
		Technician:   strings.TrimSpace(in.Technician),
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.RunWorkOrder(ctx, func(
		orderRepo repository.WorkOrderRepository,
		historyRepo repository.HistoryRepository,
		_ repository.PauseRepository,
	) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return historyRepo.Open(ctx, &entity.HistoryStateSegment{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			State:     entity.StateIngresado,
			StartedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}

	uc.publisher.Publish(ctx, events.OrderCreated{Order: *order, Actor: actor, At: now})
	return order, nil
}

// Transition cambia el estado de la OT de forma atómica: cierra la pausa abierta, cierra el tramo
// vigente, aplica el estado (CERRADO inactiva la OT y fija ClosedAt) y abre el tramo nuevo.
func (uc *UseCase) Transition(ctx context.Context, orderID string, target entity.State, actor string) (*entity.WorkOrder, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}
	var (
		order       *entity.WorkOrder
		previous    entity.State
		closedPause *entity.Pause
		now         time.Time
	)
	err := uc.txRunner.RunWorkOrder(ctx, func(
		orderRepo repository.WorkOrderRepository,
		historyRepo repository.HistoryRepository,
		pauseRepo repository.PauseRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := workorder.ValidateTransition(o, target); err != nil {
			return err
		}
		// El reloj se lee con la fila bloqueada para que los tramos queden ordenados.
		now = uc.now()

		pause, err := pauseRepo.GetOpen(ctx, o.ID)
		switch {
		case err == nil:
			if err := pauseRepo.Close(ctx, pause.ID, now); err != nil {
				return err
			}
			pause.EndedAt = &now
			closedPause = pause
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		if _, err := historyRepo.CloseOpen(ctx, o.ID, now); err != nil {
			return err
		}

		previous = o.State
		o.State = target
		if target == entity.StateCerrado {
			o.Active = false
			o.ClosedAt = &now
		}
		o.UpdatedAt = now
		if err := orderRepo.Update(ctx, o); err != nil {
			return err
		}

		if err := historyRepo.Open(ctx, &entity.HistoryStateSegment{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			State:     target,
			StartedAt: now,
		}); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transition work order: %w", err)
	}

	evts := []events.Event{events.OrderStateChanged{
		Order: *order, PreviousState: previous, NewState: target, Actor: actor, At: now,
	}}
	if closedPause != nil {
		evts = append(evts, events.PauseEnded{Order: *order, Pause: *closedPause, Actor: actor})
	}
	uc.publisher.Publish(ctx, evts...)
	return order, nil
}

// StartPause abre una pausa de mantenimiento. Falla si ya hay una abierta.
func (uc *UseCase) StartPause(ctx context.Context, orderID, reason, actor string) (*entity.Pause, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "motivo requerido")
	}
	if utf8.RuneCountInString(reason) > MaxPauseReasonLen {
		return nil, domain.NewValidationError("reason", fmt.Sprintf("el motivo supera %d caracteres", MaxPauseReasonLen))
	}
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}

	var (
		order *entity.WorkOrder
		pause *entity.Pause
	)
	err := uc.txRunner.RunWorkOrder(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.HistoryRepository,
		pauseRepo repository.PauseRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := workorder.EnsureActive(o); err != nil {
			return err
		}
		open, err := pauseRepo.GetOpen(ctx, o.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if open != nil {
			return &domain.AlreadyPausedError{OrderID: o.ID}
		}
		p := &entity.Pause{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			Reason:    reason,
			StartedAt: uc.now(),
		}
		if err := pauseRepo.Create(ctx, p); err != nil {
			return err
		}
		order, pause = o, p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("start pause: %w", err)
	}

	uc.publisher.Publish(ctx, events.PauseStarted{Order: *order, Pause: *pause, Actor: actor})
	return pause, nil
}

// EndPause cierra la pausa abierta de la OT.
func (uc *UseCase) EndPause(ctx context.Context, orderID, actor string) (*entity.Pause, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}
	var (
		order *entity.WorkOrder
		pause *entity.Pause
	)
	err := uc.txRunner.RunWorkOrder(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.HistoryRepository,
		pauseRepo repository.PauseRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := workorder.EnsureActive(o); err != nil {
			return err
		}
		p, err := pauseRepo.GetOpen(ctx, o.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NoPauseOpenError{OrderID: o.ID}
		}
		if err != nil {
			return err
		}
		now := uc.now()
		if err := pauseRepo.Close(ctx, p.ID, now); err != nil {
			return err
		}
		p.EndedAt = &now
		order, pause = o, p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("end pause: %w", err)
	}

	uc.publisher.Publish(ctx, events.PauseEnded{Order: *order, Pause: *pause, Actor: actor})
	return pause, nil
}

// PlanningInput campos de planificación; nil = sin cambio. Technician vacío desasigna.
type PlanningInput struct {
	Priority   *entity.Priority
	DueDate    *time.Time
	Technician *string
}

// UpdatePlanning ajusta prioridad, fecha compromiso o mecánico de una OT activa.
func (uc *UseCase) UpdatePlanning(ctx context.Context, orderID string, in PlanningInput, actor string) (*entity.WorkOrder, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, domain.NewValidationError("priority", "prioridad inválida: "+string(*in.Priority))
	}
	var order *entity.WorkOrder
	err := uc.txRunner.RunWorkOrder(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.HistoryRepository,
		_ repository.PauseRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := workorder.EnsureActive(o); err != nil {
			return err
		}
		if in.DueDate != nil && in.DueDate.Before(o.CreatedAt) {
			return domain.NewValidationError("due_date", "la fecha compromiso no puede ser anterior al ingreso")
		}
		if in.Priority != nil {
			o.Priority = *in.Priority
		}
		if in.DueDate != nil {
			o.DueDate = in.DueDate
		}
		if in.Technician != nil {
			o.Technician = strings.TrimSpace(*in.Technician)
		}
		o.UpdatedAt = uc.now()
		if err := orderRepo.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update planning: %w", err)
	}

	uc.publisher.Publish(ctx, events.OrderUpdated{Order: *order, Actor: actor, At: order.UpdatedAt})
	return order, nil
}
