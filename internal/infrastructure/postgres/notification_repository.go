package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/ports"
)

var _ ports.Notifier = (*NotificationRepo)(nil)

// StoredNotification aviso persistido con su estado de lectura.
type StoredNotification struct {
	ID int64
	ports.Notification
	Read      bool
	CreatedAt time.Time
}

// NotificationRepo bandeja de avisos (notificaciones). Implementa ports.Notifier;
// la entrega por email o push la hace otro proceso.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Notify persiste el aviso sin leer.
func (r *NotificationRepo) Notify(ctx context.Context, n ports.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notificaciones (destinatario, titulo, mensaje, url) VALUES ($1, $2, $3, $4)`,
		n.Recipient, n.Title, n.Message, n.URL,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListUnread avisos sin leer del destinatario, más recientes primero.
func (r *NotificationRepo) ListUnread(ctx context.Context, recipient string) ([]StoredNotification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, destinatario, titulo, mensaje, url, leida, fecha FROM notificaciones
		WHERE destinatario = $1 AND NOT leida
		ORDER BY fecha DESC, id DESC`, recipient)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []StoredNotification
	for rows.Next() {
		var n StoredNotification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Title, &n.Message, &n.URL, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
