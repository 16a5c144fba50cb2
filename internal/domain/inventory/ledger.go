// Package inventory contiene las reglas puras del libro de stock (servicio de dominio).
package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ReasonConsumption motivo habitual de una salida asociada a OT.
const ReasonConsumption = "Consumo en OT"

var reorderFactor = decimal.NewFromFloat(1.5)

// SignedDelta devuelve la variación de stock que produce un movimiento.
// IN: +qty, OUT: -qty, ADJUST: +qty (qty puede ser negativa).
func SignedDelta(kind entity.MovementKind, qty decimal.Decimal) decimal.Decimal {
	if kind == entity.MovementKindOut {
		return qty.Neg()
	}
	return qty
}

// Candidate calcula el saldo resultante y falla con InsufficientStockError si quedaría negativo.
func Candidate(part *entity.Part, kind entity.MovementKind, qty decimal.Decimal) (decimal.Decimal, error) {
	candidate := part.CurrentQuantity.Add(SignedDelta(kind, qty))
	if candidate.IsNegative() {
		return part.CurrentQuantity, &domain.InsufficientStockError{
			PartCode:  part.Code,
			Available: part.CurrentQuantity,
			Requested: SignedDelta(kind, qty).Neg(),
		}
	}
	return candidate, nil
}

// ValidateMovement verifica las precondiciones de un movimiento sin tocar almacenamiento.
// Toda salida es consumo y exige OT; las entradas no se asocian a OT; el ajuste requiere motivo.
func ValidateMovement(kind entity.MovementKind, qty decimal.Decimal, reason string, orderID *string, actor string) error {
	if !kind.Valid() {
		return domain.NewValidationError("kind", "tipo de movimiento desconocido")
	}
	if qty.IsZero() {
		return domain.NewValidationError("quantity", "la cantidad debe ser distinta de 0")
	}
	if strings.TrimSpace(actor) == "" {
		return domain.NewValidationError("actor", "actor requerido")
	}
	hasOrder := orderID != nil && strings.TrimSpace(*orderID) != ""
	switch kind {
	case entity.MovementKindIn:
		if qty.IsNegative() {
			return domain.NewValidationError("quantity", "la entrada debe ser positiva")
		}
		if hasOrder {
			return domain.NewValidationError("order_id", "las entradas no se asocian a OT")
		}
	case entity.MovementKindOut:
		if qty.IsNegative() {
			return domain.NewValidationError("quantity", "la salida debe ser positiva")
		}
		if !hasOrder {
			return domain.NewValidationError("order_id", "debe asociar la OT al consumo")
		}
	case entity.MovementKindAdjust:
		if strings.TrimSpace(reason) == "" {
			return domain.NewValidationError("reason", "el ajuste requiere un motivo")
		}
	}
	return nil
}

// ShouldAlertLowStock indica si, tras aplicar un movimiento, corresponde alertar stock bajo.
// Las entradas nunca alertan.
func ShouldAlertLowStock(kind entity.MovementKind, newBalance, minQty decimal.Decimal) bool {
	return kind != entity.MovementKindIn && newBalance.LessThanOrEqual(minQty)
}

// SuggestedReorder cantidad sugerida para reponer: (mínimo * 1.5) - actual, nunca negativa.
func SuggestedReorder(current, minQty decimal.Decimal) decimal.Decimal {
	qty := minQty.Mul(reorderFactor).Sub(current)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}
