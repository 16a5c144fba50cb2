package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de stock.
type MovementKind string

// Tipos de movimiento de stock.
const (
	MovementKindIn     MovementKind = "IN"     // entrada
	MovementKindOut    MovementKind = "OUT"    // salida (consumo en OT)
	MovementKindAdjust MovementKind = "ADJUST" // ajuste con signo
)

// Valid indica si el tipo pertenece al catálogo.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindIn, MovementKindOut, MovementKindAdjust:
		return true
	}
	return false
}

// Label nombre legible del tipo.
func (k MovementKind) Label() string {
	switch k {
	case MovementKindIn:
		return "Entrada"
	case MovementKindOut:
		return "Salida"
	case MovementKindAdjust:
		return "Ajuste"
	}
	return string(k)
}

// StockMovement es una entrada inmutable del libro de stock.
// Quantity es positiva para IN/OUT y con signo para ADJUST. BalanceBefore/BalanceAfter
// registran el saldo del repuesto alrededor del movimiento.
type StockMovement struct {
	ID            string
	PartID        string
	Kind          MovementKind
	Quantity      decimal.Decimal
	Reason        string
	OrderID       *string // OT asociada (obligatoria en OUT, prohibida en IN)
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}
