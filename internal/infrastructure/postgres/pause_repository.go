package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PauseRepository = (*PauseRepo)(nil)

// PauseRepo pausas de mantenimiento (pausas_ot).
type PauseRepo struct {
	q Querier
}

// NewPauseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPauseRepository(q Querier) *PauseRepo {
	return &PauseRepo{q: q}
}

// Create abre una pausa. uq_pausa_abierta_por_ot rechaza una segunda pausa abierta.
func (r *PauseRepo) Create(ctx context.Context, p *entity.Pause) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pausas_ot (id, ot_id, motivo, inicio, fin)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.OrderID, p.Reason, p.StartedAt, p.EndedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == "uq_pausa_abierta_por_ot" {
			return &domain.AlreadyPausedError{OrderID: p.OrderID}
		}
		return fmt.Errorf("insert pause: %w", err)
	}
	return nil
}

// GetOpen devuelve la pausa abierta de la OT o domain.ErrNotFound.
func (r *PauseRepo) GetOpen(ctx context.Context, orderID string) (*entity.Pause, error) {
	var p entity.Pause
	err := r.q.QueryRow(ctx, `
		SELECT id, ot_id, motivo, inicio, fin FROM pausas_ot
		WHERE ot_id = $1 AND fin IS NULL`, orderID,
	).Scan(&p.ID, &p.OrderID, &p.Reason, &p.StartedAt, &p.EndedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get open pause: %w", err)
	}
	return &p, nil
}

// Close fija el fin de una pausa abierta.
func (r *PauseRepo) Close(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE pausas_ot SET fin = $2 WHERE id = $1 AND fin IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("close pause: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrder pausas de la OT en orden cronológico.
func (r *PauseRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Pause, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, ot_id, motivo, inicio, fin FROM pausas_ot
		WHERE ot_id = $1 ORDER BY inicio, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pauses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Pause
	for rows.Next() {
		var p entity.Pause
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Reason, &p.StartedAt, &p.EndedAt); err != nil {
			return nil, fmt.Errorf("scan pause: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
