package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los reportes del taller.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// ListOrderFacts devuelve las OTs del filtro con su estado de pausa.
// paused: existe una pausa abierta. paused_seconds: Σ(fin - inicio) de las pausas cerradas.
// El rango de fechas acota fecha_ingreso; filtros vacíos no aplican.
func (r *ReportRepo) ListOrderFacts(ctx context.Context, f repository.ReportFilter) ([]repository.OrderFact, error) {
	const query = `
	SELECT
	    o.id, o.folio, o.vehiculo_id, o.taller_id, v.patente, o.estado, o.prioridad, o.activa,
	    o.descripcion, o.mecanico, o.fecha_limite, o.fecha_ingreso, o.fecha_cierre, o.updated_at,
	    EXISTS (
	        SELECT 1 FROM pausas_ot p WHERE p.ot_id = o.id AND p.fin IS NULL
	    )                                                                   AS paused,
	    COALESCE((
	        SELECT SUM(EXTRACT(EPOCH FROM (p.fin - p.inicio)))::BIGINT
	        FROM pausas_ot p WHERE p.ot_id = o.id AND p.fin IS NOT NULL
	    ), 0)                                                               AS paused_seconds
	FROM ordenes_trabajo o
	JOIN vehiculos v ON v.id = o.vehiculo_id
	WHERE ($1::timestamptz IS NULL OR o.fecha_ingreso >= $1)
	  AND ($2::timestamptz IS NULL OR o.fecha_ingreso <= $2)
	  AND ($3 = '' OR o.taller_id::TEXT = $3)
	  AND ($4 = '' OR o.mecanico = $4)
	  AND ($5 = '' OR o.estado = $5)
	ORDER BY o.fecha_ingreso`

	rows, err := r.pool.Query(ctx, query, f.From, f.To, f.WorkshopID, f.Technician, string(f.State))
	if err != nil {
		return nil, fmt.Errorf("report.ListOrderFacts: %w", err)
	}
	defer rows.Close()

	var facts []repository.OrderFact
	for rows.Next() {
		var (
			o               entity.WorkOrder
			state, priority string
			fact            repository.OrderFact
		)
		if err := rows.Scan(
			&o.ID, &o.Folio, &o.VehicleID, &o.WorkshopID, &o.VehiclePlate, &state, &priority, &o.Active,
			&o.Description, &o.Technician, &o.DueDate, &o.CreatedAt, &o.ClosedAt, &o.UpdatedAt,
			&fact.Paused, &fact.PausedSeconds,
		); err != nil {
			return nil, fmt.Errorf("report.ListOrderFacts scan: %w", err)
		}
		o.State = entity.State(state)
		o.Priority = entity.Priority(priority)
		fact.Order = &o
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// TopConsumedParts suma las salidas (OUT) por repuesto, mayor consumo primero.
// El rango de fechas acota la fecha del movimiento; taller y mecánico se toman de la OT del consumo.
func (r *ReportRepo) TopConsumedParts(ctx context.Context, f repository.ReportFilter, limit int) ([]repository.PartConsumption, error) {
	const query = `
	SELECT
	    p.id,
	    p.codigo,
	    p.descripcion,
	    SUM(m.cantidad) AS total
	FROM movimientos_stock m
	JOIN repuestos       p ON p.id = m.repuesto_id
	JOIN ordenes_trabajo o ON o.id = m.ot_id
	WHERE m.tipo = 'OUT'
	  AND ($1::timestamptz IS NULL OR m.fecha >= $1)
	  AND ($2::timestamptz IS NULL OR m.fecha <= $2)
	  AND ($3 = '' OR o.taller_id::TEXT = $3)
	  AND ($4 = '' OR o.mecanico = $4)
	GROUP BY p.id, p.codigo, p.descripcion
	ORDER BY total DESC, p.codigo
	LIMIT $5`

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, query, f.From, f.To, f.WorkshopID, f.Technician, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopConsumedParts: %w", err)
	}
	defer rows.Close()

	var out []repository.PartConsumption
	for rows.Next() {
		var row repository.PartConsumption
		if err := rows.Scan(&row.PartID, &row.Code, &row.Description, &row.Total); err != nil {
			return nil, fmt.Errorf("report.TopConsumedParts scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
