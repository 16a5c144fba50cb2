package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ReportFilter filtro común de los reportes. Campos vacíos no filtran.
// From/To acotan la fecha de ingreso de la OT (y la fecha de los movimientos en consumos).
type ReportFilter struct {
	From       *time.Time
	To         *time.Time
	WorkshopID string
	Technician string
	State      entity.State
}

// OrderFact fila cruda por OT para agregar en el caso de uso.
type OrderFact struct {
	Order         *entity.WorkOrder
	Paused        bool  // tiene una pausa abierta
	PausedSeconds int64 // Σ pausas cerradas
}

// PartConsumption total consumido (Σ OUT) de un repuesto.
type PartConsumption struct {
	PartID      string
	Code        string
	Description string
	Total       decimal.Decimal
}

// ReportRepository consultas de solo lectura para los reportes.
type ReportRepository interface {
	ListOrderFacts(ctx context.Context, f ReportFilter) ([]OrderFact, error)
	// TopConsumedParts repuestos con mayor salida, descendente.
	TopConsumedParts(ctx context.Context, f ReportFilter, limit int) ([]PartConsumption, error)
}
