package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para repuestos.
const (
	UnitPiece    = "un" // unidad
	UnitKilogram = "kg" // kilogramo
	UnitLiter    = "lt" // litro
	UnitMeter    = "mt" // metro
)

// ValidUnit indica si la unidad pertenece al catálogo.
func ValidUnit(u string) bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitLiter, UnitMeter:
		return true
	}
	return false
}

// Part representa un repuesto del inventario del taller.
// CurrentQuantity solo lo modifica el motor del libro de stock y nunca es negativo.
type Part struct {
	ID              string
	Code            string // código único
	Description     string
	Unit            string
	CurrentQuantity decimal.Decimal
	MinQuantity     decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AtMinimum indica si el stock actual está en o bajo el mínimo.
func (p *Part) AtMinimum() bool {
	return p.CurrentQuantity.LessThanOrEqual(p.MinQuantity)
}
