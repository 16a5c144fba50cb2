package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/ports"
)

var _ ports.AuditSink = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only (audit_logs). Implementa ports.AuditSink.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Record inserta la entrada; extra se guarda como JSONB.
func (r *AuditLogRepo) Record(ctx context.Context, e ports.AuditEntry) error {
	extra := e.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (app, accion, usuario, objeto, extra, fecha)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.App, e.Action, e.Actor, e.Object, extra, at,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByObject entradas de un objeto, más antiguas primero.
func (r *AuditLogRepo) ListByObject(ctx context.Context, object string) ([]ports.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT app, accion, usuario, objeto, extra, fecha FROM audit_logs
		WHERE objeto = $1 ORDER BY id`, object)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []ports.AuditEntry
	for rows.Next() {
		var e ports.AuditEntry
		if err := rows.Scan(&e.App, &e.Action, &e.Actor, &e.Object, &e.Extra, &e.At); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
