// Package workorder contiene la máquina de estados de la OT y sus métricas derivadas.
// Todo es puro: sin almacenamiento ni reloj global.
package workorder

import (
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// allowedTransitions matriz autoritativa de transiciones; los pares no listados se rechazan.
var allowedTransitions = map[entity.State][]entity.State{
	entity.StateIngresado:   {entity.StateDiagnostico},
	entity.StateDiagnostico: {entity.StateReparacion, entity.StateListo},
	entity.StateReparacion:  {entity.StateListo, entity.StateDiagnostico},
	entity.StateListo:       {entity.StateEntregado, entity.StateReparacion},
	entity.StateEntregado:   {entity.StateCerrado},
	entity.StateCerrado:     {},
}

// CanTransition indica si el par (from, to) está en la matriz.
func CanTransition(from, to entity.State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStates estados alcanzables desde from.
func NextStates(from entity.State) []entity.State {
	out := make([]entity.State, len(allowedTransitions[from]))
	copy(out, allowedTransitions[from])
	return out
}

// EnsureActive falla con ClosedOrderError si la OT está cerrada o inactiva.
func EnsureActive(order *entity.WorkOrder) error {
	if order.IsClosed() {
		return &domain.ClosedOrderError{OrderID: order.ID}
	}
	return nil
}

// ValidateTransition aplica, en orden, las precondiciones de un cambio de estado.
func ValidateTransition(order *entity.WorkOrder, target entity.State) error {
	if !target.Valid() {
		return domain.NewValidationError("target_state", "estado desconocido: "+string(target))
	}
	if err := EnsureActive(order); err != nil {
		return err
	}
	if !CanTransition(order.State, target) {
		return &domain.InvalidTransitionError{From: string(order.State), To: string(target)}
	}
	return nil
}
