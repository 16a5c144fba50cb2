package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, repuesto_id, tipo, cantidad, motivo, ot_id, saldo_anterior, saldo_posterior, creado_por, fecha`

// StockMovementRepo implementación del libro de stock. Solo INSERT y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. Debe ejecutarse en la misma tx que actualiza stock_actual.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movimientos_stock (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.PartID, string(m.Kind), m.Quantity, m.Reason, m.OrderID,
		m.BalanceBefore, m.BalanceAfter, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByPart movimientos de un repuesto, más recientes primero; from/to opcionales sobre la fecha.
func (r *StockMovementRepo) ListByPart(ctx context.Context, partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	limit, offset = limitOffset(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM movimientos_stock
		WHERE repuesto_id = $1
		  AND ($2::timestamptz IS NULL OR fecha >= $2)
		  AND ($3::timestamptz IS NULL OR fecha <= $3)
		ORDER BY fecha DESC, id
		LIMIT $4 OFFSET $5`, partID, from, to, limit, offset)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list movements by part: %w", err)
	}
	return collectMovements(rows)
}

// ListByOrder consumos registrados contra una OT, en orden cronológico.
func (r *StockMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM movimientos_stock
		WHERE ot_id = $1
		ORDER BY fecha, id`, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list movements by order: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.PartID, &kind, &m.Quantity, &m.Reason, &m.OrderID,
			&m.BalanceBefore, &m.BalanceAfter, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
