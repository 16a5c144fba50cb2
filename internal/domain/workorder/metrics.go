package workorder

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// closeOrNow devuelve ClosedAt si la OT está cerrada, si no now.
func closeOrNow(order *entity.WorkOrder, now time.Time) time.Time {
	if order.ClosedAt != nil {
		return *order.ClosedAt
	}
	return now
}

// GrossDuration tiempo total desde el ingreso hasta el cierre (o now).
func GrossDuration(order *entity.WorkOrder, now time.Time) time.Duration {
	d := closeOrNow(order, now).Sub(order.CreatedAt)
	if d < 0 {
		return 0
	}
	return d
}

// PausedDuration suma las pausas cerradas más la pausa abierta hasta closeOrNow.
func PausedDuration(order *entity.WorkOrder, pauses []*entity.Pause, now time.Time) time.Duration {
	end := closeOrNow(order, now)
	var total time.Duration
	for _, p := range pauses {
		if p.EndedAt != nil {
			total += p.EndedAt.Sub(p.StartedAt)
			continue
		}
		if end.After(p.StartedAt) {
			total += end.Sub(p.StartedAt)
		}
	}
	return total
}

// NetDurationSeconds = (closeOrNow - ingreso) - Σ pausas cerradas - (pausa abierta ? closeOrNow - inicio : 0).
// Nunca negativo.
func NetDurationSeconds(order *entity.WorkOrder, pauses []*entity.Pause, now time.Time) int64 {
	net := GrossDuration(order, now) - PausedDuration(order, pauses, now)
	if net < 0 {
		return 0
	}
	return int64(net / time.Second)
}

// IsOverdue: la OT tiene fecha compromiso y closeOrNow la supera.
func IsOverdue(order *entity.WorkOrder, now time.Time) bool {
	return order.DueDate != nil && closeOrNow(order, now).After(*order.DueDate)
}

// OpenPause devuelve la pausa abierta, si existe.
func OpenPause(pauses []*entity.Pause) *entity.Pause {
	for _, p := range pauses {
		if p.IsOpen() {
			return p
		}
	}
	return nil
}
