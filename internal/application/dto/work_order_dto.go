package dto

import "time"

// CreateVehicleRequest body para POST /api/vehicles.
type CreateVehicleRequest struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// VehicleDTO vehículo.
type VehicleDTO struct {
	ID        string    `json:"id"`
	Plate     string    `json:"plate"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWorkshopRequest body para POST /api/workshops.
type CreateWorkshopRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

// WorkshopDTO taller.
type WorkshopDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWorkOrderRequest body para POST /api/work-orders.
type CreateWorkOrderRequest struct {
	Folio       string     `json:"folio"`
	VehicleID   string     `json:"vehicle_id"`
	WorkshopID  string     `json:"workshop_id"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Technician  string     `json:"technician,omitempty"`
	Description string     `json:"description,omitempty"`
}

// TransitionRequest body para POST /api/work-orders/:id/transitions.
type TransitionRequest struct {
	Target string `json:"target"`
}

// StartPauseRequest body para POST /api/work-orders/:id/pauses.
type StartPauseRequest struct {
	Reason string `json:"reason"`
}

// PlanningRequest body para PATCH /api/work-orders/:id/planning.
type PlanningRequest struct {
	Priority   *string    `json:"priority,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Technician *string    `json:"technician,omitempty"`
}

// WorkOrderDTO OT.
type WorkOrderDTO struct {
	ID           string     `json:"id"`
	Folio        string     `json:"folio"`
	VehicleID    string     `json:"vehicle_id"`
	VehiclePlate string     `json:"vehicle_plate,omitempty"`
	WorkshopID   string     `json:"workshop_id"`
	State        string     `json:"state"`
	StateLabel   string     `json:"state_label"`
	NextStates   []string   `json:"next_states"`
	Priority     string     `json:"priority"`
	Active       bool       `json:"active"`
	Description  string     `json:"description,omitempty"`
	Technician   string     `json:"technician,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// HistorySegmentDTO tramo de permanencia en un estado.
type HistorySegmentDTO struct {
	State     string     `json:"state"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// PauseDTO pausa.
type PauseDTO struct {
	ID        string     `json:"id"`
	Reason    string     `json:"reason"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// OrderMetricsDTO métricas derivadas de una OT.
type OrderMetricsDTO struct {
	NetDurationSeconds   int64 `json:"net_duration_seconds"`
	GrossDurationSeconds int64 `json:"gross_duration_seconds"`
	PausedSeconds        int64 `json:"paused_seconds"`
	IsOverdue            bool  `json:"is_overdue"`
	Paused               bool  `json:"paused"`
}

// WorkOrderDetailDTO OT con historial, pausas y métricas.
type WorkOrderDetailDTO struct {
	Order   WorkOrderDTO        `json:"order"`
	History []HistorySegmentDTO `json:"history"`
	Pauses  []PauseDTO          `json:"pauses"`
	Metrics OrderMetricsDTO     `json:"metrics"`
}
