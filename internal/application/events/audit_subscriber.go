package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// OrderObject descripción de una OT en bitácora: "OT <folio> · <patente>".
func OrderObject(o entity.WorkOrder) string {
	return fmt.Sprintf("OT %s · %s", o.Folio, o.VehiclePlate)
}

// MovementObject descripción de un movimiento: "MOV <id> · <código> · <tipo>".
func MovementObject(m entity.StockMovement, partCode string) string {
	return fmt.Sprintf("MOV %s · %s · %s", m.ID, partCode, m.Kind.Label())
}

func orderExtra(o entity.WorkOrder) map[string]any {
	extra := map[string]any{
		"estado":        o.State.Label(),
		"activa":        o.Active,
		"taller":        o.WorkshopID,
		"vehiculo":      o.VehiclePlate,
		"prioridad":     string(o.Priority),
		"fecha_ingreso": o.CreatedAt.Format(time.RFC3339),
	}
	if o.ClosedAt != nil {
		extra["fecha_cierre"] = o.ClosedAt.Format(time.RFC3339)
	}
	if o.Technician != "" {
		extra["mecanico"] = o.Technician
	}
	return extra
}

func partExtra(p entity.Part) map[string]any {
	return map[string]any{
		"codigo":       p.Code,
		"descripcion":  p.Description,
		"unidad":       p.Unit,
		"stock_actual": p.CurrentQuantity.String(),
		"stock_minimo": p.MinQuantity.String(),
		"activo":       p.Active,
	}
}

// NewAuditSubscriber traduce eventos a entradas del AuditSink.
// LowStockReached no se audita: ya queda registrado el movimiento que lo causó.
func NewAuditSubscriber(sink ports.AuditSink, now func() time.Time) Handler {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, evt Event) error {
		entry, ok := auditEntryFor(evt)
		if !ok {
			return nil
		}
		if entry.At.IsZero() {
			entry.At = now()
		}
		return sink.Record(ctx, entry)
	}
}

func auditEntryFor(evt Event) (ports.AuditEntry, bool) {
	switch e := evt.(type) {
	case OrderCreated:
		return ports.AuditEntry{
			App: ports.AuditAppOrder, Action: ports.AuditActionCreate, Actor: e.Actor,
			Object: OrderObject(e.Order), Extra: orderExtra(e.Order), At: e.At,
		}, true
	case OrderUpdated:
		return ports.AuditEntry{
			App: ports.AuditAppOrder, Action: ports.AuditActionUpdate, Actor: e.Actor,
			Object: OrderObject(e.Order), Extra: orderExtra(e.Order), At: e.At,
		}, true
	case OrderStateChanged:
		extra := orderExtra(e.Order)
		extra["desde"] = e.PreviousState.Label()
		extra["hacia"] = e.NewState.Label()
		return ports.AuditEntry{
			App: ports.AuditAppOrder, Action: ports.AuditActionTransition, Actor: e.Actor,
			Object: OrderObject(e.Order), Extra: extra, At: e.At,
		}, true
	case PauseStarted:
		return ports.AuditEntry{
			App: ports.AuditAppOrderPause, Action: ports.AuditActionPauseStart, Actor: e.Actor,
			Object: OrderObject(e.Order),
			Extra:  map[string]any{"motivo": e.Pause.Reason, "inicio": e.Pause.StartedAt.Format(time.RFC3339)},
			At:     e.Pause.StartedAt,
		}, true
	case PauseEnded:
		extra := map[string]any{"motivo": e.Pause.Reason, "inicio": e.Pause.StartedAt.Format(time.RFC3339)}
		var at time.Time
		if e.Pause.EndedAt != nil {
			at = *e.Pause.EndedAt
			extra["fin"] = at.Format(time.RFC3339)
		}
		return ports.AuditEntry{
			App: ports.AuditAppOrderPause, Action: ports.AuditActionPauseEnd, Actor: e.Actor,
			Object: OrderObject(e.Order), Extra: extra, At: at,
		}, true
	case MovementApplied:
		extra := map[string]any{
			"repuesto":     e.Part.Code,
			"tipo":         e.Movement.Kind.Label(),
			"cantidad":     e.Movement.Quantity.String(),
			"saldo_previo": e.Movement.BalanceBefore.String(),
			"saldo":        e.Movement.BalanceAfter.String(),
			"motivo":       e.Movement.Reason,
		}
		if e.Movement.OrderID != nil {
			extra["ot"] = *e.Movement.OrderID
		}
		return ports.AuditEntry{
			App: ports.AuditAppMovement, Action: ports.AuditActionCreate, Actor: e.Movement.CreatedBy,
			Object: MovementObject(e.Movement, e.Part.Code), Extra: extra, At: e.Movement.CreatedAt,
		}, true
	case PartCreated:
		return ports.AuditEntry{
			App: ports.AuditAppPart, Action: ports.AuditActionCreate, Actor: e.Actor,
			Object: "Repuesto " + e.Part.Code, Extra: partExtra(e.Part), At: e.Part.CreatedAt,
		}, true
	case PartUpdated:
		return ports.AuditEntry{
			App: ports.AuditAppPart, Action: ports.AuditActionUpdate, Actor: e.Actor,
			Object: "Repuesto " + e.Part.Code, Extra: partExtra(e.Part), At: e.Part.UpdatedAt,
		}, true
	}
	return ports.AuditEntry{}, false
}
