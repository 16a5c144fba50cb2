package events

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/ports"
)

// DefaultLowStockURL destino del aviso de stock bajo.
const DefaultLowStockURL = "/inventario/repuestos/"

// NewNotificationSubscriber emite avisos para stock bajo, cambios de estado y pausas.
// El aviso de stock bajo va a quien registró el movimiento; los de OT al mecánico asignado
// o, si no hay, al actor.
func NewNotificationSubscriber(n ports.Notifier, lowStockURL string) Handler {
	if lowStockURL == "" {
		lowStockURL = DefaultLowStockURL
	}
	return func(ctx context.Context, evt Event) error {
		note, ok := notificationFor(evt, lowStockURL)
		if !ok || note.Recipient == "" {
			return nil
		}
		return n.Notify(ctx, note)
	}
}

func orderURL(id string) string { return "/ot/" + id + "/" }

func notificationFor(evt Event, lowStockURL string) (ports.Notification, bool) {
	switch e := evt.(type) {
	case LowStockReached:
		return ports.Notification{
			Recipient: e.Actor,
			Title:     "Stock bajo: " + e.Part.Code,
			Message: fmt.Sprintf("%s en mínimo (stock %s / min %s).",
				e.Part.Description, e.Part.CurrentQuantity.String(), e.Part.MinQuantity.String()),
			URL: lowStockURL,
		}, true
	case OrderStateChanged:
		return ports.Notification{
			Recipient: recipient(e.Order.Technician, e.Actor),
			Title:     fmt.Sprintf("OT %s: %s", e.Order.Folio, e.NewState.Label()),
			Message:   fmt.Sprintf("La OT %s pasó de %s a %s.", OrderObject(e.Order), e.PreviousState.Label(), e.NewState.Label()),
			URL:       orderURL(e.Order.ID),
		}, true
	case PauseStarted:
		return ports.Notification{
			Recipient: recipient(e.Order.Technician, e.Actor),
			Title:     fmt.Sprintf("OT %s en pausa", e.Order.Folio),
			Message:   e.Pause.Reason,
			URL:       orderURL(e.Order.ID),
		}, true
	case PauseEnded:
		return ports.Notification{
			Recipient: recipient(e.Order.Technician, e.Actor),
			Title:     fmt.Sprintf("OT %s reanudada", e.Order.Folio),
			Message:   e.Pause.Reason,
			URL:       orderURL(e.Order.ID),
		}, true
	}
	return ports.Notification{}, false
}

func recipient(technician, actor string) string {
	if technician != "" {
		return technician
	}
	return actor
}
