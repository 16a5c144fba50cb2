package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound  = errors.New("recurso no encontrado")
	ErrDuplicate = errors.New("recurso duplicado")
	ErrConflict  = errors.New("conflicto con el estado actual")

	ErrValidation           = errors.New("entrada inválida")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrClosedOrder          = errors.New("la OT está cerrada")
	ErrAlreadyPaused        = errors.New("ya existe una pausa abierta en esta OT")
	ErrNoPauseOpen          = errors.New("no hay una pausa abierta para esta OT")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrDuplicateActiveOrder = errors.New("el vehículo ya tiene una OT activa")
)

// ValidationError indica una precondición de entrada incumplida. Se devuelve antes de cualquier escritura.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye el error de validación.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidTransitionError nombra el par (origen, destino) rechazado por la matriz de transiciones.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s → %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ClosedOrderError se devuelve al operar sobre una OT inactiva o en CERRADO.
type ClosedOrderError struct {
	OrderID string
}

func (e *ClosedOrderError) Error() string {
	return fmt.Sprintf("%s: %s", ErrClosedOrder, e.OrderID)
}

func (e *ClosedOrderError) Unwrap() error { return ErrClosedOrder }

// AlreadyPausedError se devuelve al iniciar una pausa con otra abierta.
type AlreadyPausedError struct {
	OrderID string
}

func (e *AlreadyPausedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyPaused, e.OrderID)
}

func (e *AlreadyPausedError) Unwrap() error { return ErrAlreadyPaused }

// NoPauseOpenError se devuelve al finalizar una pausa inexistente.
type NoPauseOpenError struct {
	OrderID string
}

func (e *NoPauseOpenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNoPauseOpen, e.OrderID)
}

func (e *NoPauseOpenError) Unwrap() error { return ErrNoPauseOpen }

// InsufficientStockError indica que el movimiento dejaría el stock negativo.
type InsufficientStockError struct {
	PartCode  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: %s (disponible %s, solicitado %s)",
		ErrInsufficientStock, e.PartCode, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateActiveOrderError: otra OT activa ya referencia el mismo vehículo.
type DuplicateActiveOrderError struct {
	VehicleID string
}

func (e *DuplicateActiveOrderError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateActiveOrder, e.VehicleID)
}

func (e *DuplicateActiveOrderError) Unwrap() error { return ErrDuplicateActiveOrder }
