package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo tramos de estado de la OT (historial_estados_ot).
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Open abre un tramo. uq_tramo_abierto_por_ot rechaza un segundo tramo abierto.
func (r *HistoryRepo) Open(ctx context.Context, s *entity.HistoryStateSegment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO historial_estados_ot (id, ot_id, estado, inicio, fin)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.OrderID, string(s.State), s.StartedAt, s.EndedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("open history segment: %w", domain.ErrConflict)
		}
		return fmt.Errorf("open history segment: %w", err)
	}
	return nil
}

// CloseOpen cierra el tramo abierto y lo devuelve; nil si no había.
func (r *HistoryRepo) CloseOpen(ctx context.Context, orderID string, at time.Time) (*entity.HistoryStateSegment, error) {
	var s entity.HistoryStateSegment
	var state string
	err := r.q.QueryRow(ctx, `
		UPDATE historial_estados_ot SET fin = $2
		WHERE ot_id = $1 AND fin IS NULL
		RETURNING id, ot_id, estado, inicio, fin`, orderID, at,
	).Scan(&s.ID, &s.OrderID, &state, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("close history segment: %w", err)
	}
	s.State = entity.State(state)
	return &s, nil
}

// ListByOrder tramos de la OT en orden cronológico.
func (r *HistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.HistoryStateSegment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, ot_id, estado, inicio, fin FROM historial_estados_ot
		WHERE ot_id = $1 ORDER BY inicio, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var list []*entity.HistoryStateSegment
	for rows.Next() {
		var s entity.HistoryStateSegment
		var state string
		if err := rows.Scan(&s.ID, &s.OrderID, &state, &s.StartedAt, &s.EndedAt); err != nil {
			return nil, fmt.Errorf("scan history segment: %w", err)
		}
		s.State = entity.State(state)
		list = append(list, &s)
	}
	return list, rows.Err()
}
