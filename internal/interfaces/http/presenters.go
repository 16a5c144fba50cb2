package http

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	domainwo "github.com/jhoicas/Taller-api/internal/domain/workorder"
)

func toVehicleDTO(v *entity.Vehicle) dto.VehicleDTO {
	return dto.VehicleDTO{ID: v.ID, Plate: v.Plate, Brand: v.Brand, Model: v.Model, CreatedAt: v.CreatedAt}
}

func toWorkshopDTO(w *entity.Workshop) dto.WorkshopDTO {
	return dto.WorkshopDTO{ID: w.ID, Name: w.Name, Address: w.Address, Capacity: w.Capacity, CreatedAt: w.CreatedAt}
}

func toWorkOrderDTO(o *entity.WorkOrder) dto.WorkOrderDTO {
	next := []string{}
	if !o.IsClosed() {
		for _, s := range domainwo.NextStates(o.State) {
			next = append(next, string(s))
		}
	}
	return dto.WorkOrderDTO{
		ID:           o.ID,
		Folio:        o.Folio,
		VehicleID:    o.VehicleID,
		VehiclePlate: o.VehiclePlate,
		WorkshopID:   o.WorkshopID,
		State:        string(o.State),
		StateLabel:   o.State.Label(),
		NextStates:   next,
		Priority:     string(o.Priority),
		Active:       o.Active,
		Description:  o.Description,
		Technician:   o.Technician,
		DueDate:      o.DueDate,
		CreatedAt:    o.CreatedAt,
		ClosedAt:     o.ClosedAt,
	}
}

func toPauseDTO(p *entity.Pause) dto.PauseDTO {
	return dto.PauseDTO{ID: p.ID, Reason: p.Reason, StartedAt: p.StartedAt, EndedAt: p.EndedAt}
}

func toMetricsDTO(m workorder.OrderMetrics) dto.OrderMetricsDTO {
	return dto.OrderMetricsDTO{
		NetDurationSeconds:   m.NetDurationSeconds,
		GrossDurationSeconds: m.GrossDurationSeconds,
		PausedSeconds:        m.PausedSeconds,
		IsOverdue:            m.IsOverdue,
		Paused:               m.Paused,
	}
}

func toDetailDTO(d *workorder.OrderDetail) dto.WorkOrderDetailDTO {
	out := dto.WorkOrderDetailDTO{
		Order:   toWorkOrderDTO(d.Order),
		History: make([]dto.HistorySegmentDTO, 0, len(d.History)),
		Pauses:  make([]dto.PauseDTO, 0, len(d.Pauses)),
		Metrics: toMetricsDTO(d.Metrics),
	}
	for _, s := range d.History {
		out.History = append(out.History, dto.HistorySegmentDTO{State: string(s.State), StartedAt: s.StartedAt, EndedAt: s.EndedAt})
	}
	for _, p := range d.Pauses {
		out.Pauses = append(out.Pauses, toPauseDTO(p))
	}
	return out
}

func toPartDTO(p *entity.Part) dto.PartDTO {
	return dto.PartDTO{
		ID:              p.ID,
		Code:            p.Code,
		Description:     p.Description,
		Unit:            p.Unit,
		CurrentQuantity: p.CurrentQuantity,
		MinQuantity:     p.MinQuantity,
		Active:          p.Active,
		AtMinimum:       p.AtMinimum(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toMovementDTO(m *entity.StockMovement) dto.StockMovementDTO {
	return dto.StockMovementDTO{
		ID:            m.ID,
		PartID:        m.PartID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		OrderID:       m.OrderID,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toMovementDTOs(list []*entity.StockMovement) []dto.StockMovementDTO {
	out := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementDTO(m))
	}
	return out
}

func toMovementResponse(r *inventory.MovementResult) dto.MovementResponse {
	return dto.MovementResponse{Movement: toMovementDTO(r.Movement), NewBalance: r.NewBalance, LowStock: r.LowStock}
}

// parseDateParam acepta YYYY-MM-DD o RFC3339. endOfDay lleva una fecha sin hora al final del día.
func parseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
