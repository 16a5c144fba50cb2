package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

// LedgerUseCase aplica movimientos al libro de stock de forma transaccional,
// con bloqueo de fila del repuesto (SELECT FOR UPDATE) y Commit/Rollback.
type LedgerUseCase struct {
	txRunner  TxRunner
	publisher events.Publisher
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, publisher events.Publisher) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, publisher: publisher, now: time.Now}
}

// MovementInput entrada para aplicar un movimiento de stock.
// Quantity es positiva en IN/OUT y con signo en ADJUST.
type MovementInput struct {
	PartID   string
	Kind     entity.MovementKind
	Quantity decimal.Decimal
	Reason   string
	OrderID  *string
	Actor    string
}

// MovementResult movimiento persistido y saldo resultante.
type MovementResult struct {
	Movement   *entity.StockMovement
	NewBalance decimal.Decimal
	LowStock   bool
}

// ApplyMovement valida la entrada, bloquea el repuesto, calcula el saldo candidato y,
// si no queda negativo, persiste movimiento y saldo en la misma transacción.
// Tras el commit publica MovementApplied y, si corresponde, LowStockReached.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	in.PartID = strings.TrimSpace(in.PartID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.OrderID != nil {
		id := strings.TrimSpace(*in.OrderID)
		if id == "" {
			in.OrderID = nil
		} else {
			in.OrderID = &id
		}
	}
	if in.PartID == "" {
		return nil, domain.NewValidationError("part_id", "repuesto requerido")
	}
	if err := inventory.ValidateMovement(in.Kind, in.Quantity, in.Reason, in.OrderID, in.Actor); err != nil {
		return nil, err
	}
	if in.Kind == entity.MovementKindOut && in.Reason == "" {
		in.Reason = inventory.ReasonConsumption
	}

	now := uc.now()
	var (
		result *MovementResult
		part   entity.Part
	)
	err := uc.txRunner.Run(ctx, func(
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.WorkOrderRepository,
	) error {
		// La OT se bloquea antes que el repuesto; el motor de OT nunca bloquea repuestos.
		// Toda OT referenciada (salida o ajuste) debe existir y estar activa.
		if in.OrderID != nil {
			order, err := orderRepo.GetForUpdate(ctx, *in.OrderID)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("order_id", "la OT no existe")
			}
			if err != nil {
				return err
			}
			if err := workorder.EnsureActive(order); err != nil {
				return err
			}
		}

		p, err := partRepo.GetForUpdate(ctx, in.PartID)
		if err != nil {
			return err
		}
		if !p.Active {
			return domain.NewValidationError("part_id", "el repuesto está inactivo")
		}
		newBalance, err := inventory.Candidate(p, in.Kind, in.Quantity)
		if err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			PartID:        p.ID,
			Kind:          in.Kind,
			Quantity:      in.Quantity,
			Reason:        in.Reason,
			OrderID:       in.OrderID,
			BalanceBefore: p.CurrentQuantity,
			BalanceAfter:  newBalance,
			CreatedBy:     in.Actor,
			CreatedAt:     now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := partRepo.UpdateQuantity(ctx, p.ID, newBalance); err != nil {
			return err
		}
		p.CurrentQuantity = newBalance
		p.UpdatedAt = now
		part = *p

		result = &MovementResult{
			Movement:   mov,
			NewBalance: newBalance,
			LowStock:   inventory.ShouldAlertLowStock(in.Kind, newBalance, p.MinQuantity),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply movement: %w", err)
	}

	evts := []events.Event{events.MovementApplied{Part: part, Movement: *result.Movement}}
	if result.LowStock {
		evts = append(evts, events.LowStockReached{Part: part, Actor: in.Actor})
	}
	uc.publisher.Publish(ctx, evts...)
	return result, nil
}
