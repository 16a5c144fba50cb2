package entity

import "time"

// State estado de una Orden de Trabajo (OT).
type State string

// Estados de la OT.
const (
	StateIngresado   State = "INGRESADO"
	StateDiagnostico State = "DIAGNOSTICO"
	StateReparacion  State = "REPARACION"
	StateListo       State = "LISTO"
	StateEntregado   State = "ENTREGADO"
	StateCerrado     State = "CERRADO"
)

// AllStates en orden del flujo.
var AllStates = []State{StateIngresado, StateDiagnostico, StateReparacion, StateListo, StateEntregado, StateCerrado}

// Valid indica si el estado pertenece al catálogo.
func (s State) Valid() bool {
	for _, st := range AllStates {
		if st == s {
			return true
		}
	}
	return false
}

// Label nombre para mostrar.
func (s State) Label() string {
	switch s {
	case StateIngresado:
		return "Ingresado"
	case StateDiagnostico:
		return "Diagnóstico"
	case StateReparacion:
		return "Reparación"
	case StateListo:
		return "Listo"
	case StateEntregado:
		return "Entregado"
	case StateCerrado:
		return "Cerrado"
	}
	return string(s)
}

// Priority prioridad de atención de la OT.
type Priority string

// Prioridades.
const (
	PriorityBaja    Priority = "BAJA"
	PriorityMedia   Priority = "MEDIA"
	PriorityAlta    Priority = "ALTA"
	PriorityUrgente Priority = "URGENTE"
)

// Valid indica si la prioridad pertenece al catálogo.
func (p Priority) Valid() bool {
	switch p {
	case PriorityBaja, PriorityMedia, PriorityAlta, PriorityUrgente:
		return true
	}
	return false
}

// WorkOrder representa una Orden de Trabajo: un vehículo siguiendo su reparación en un taller.
// Se crea en INGRESADO con Active=true; al pasar a CERRADO queda Active=false con ClosedAt.
type WorkOrder struct {
	ID         string
	Folio      string // único
	VehicleID  string
	WorkshopID string
	// VehiclePlate patente del vehículo; solo lectura, la completa el repositorio.
	VehiclePlate string
	State        State
	Priority     Priority
	Active       bool
	Description  string
	Technician   string // mecánico asignado (vacío = sin asignar)
	DueDate      *time.Time
	CreatedAt    time.Time
	ClosedAt     *time.Time
	UpdatedAt    time.Time
}

// IsClosed indica si la OT ya no admite cambios.
func (o *WorkOrder) IsClosed() bool {
	return !o.Active || o.State == StateCerrado
}

// HistoryStateSegment tramo de permanencia de una OT en un estado. EndedAt nil = tramo abierto.
type HistoryStateSegment struct {
	ID        string
	OrderID   string
	State     State
	StartedAt time.Time
	EndedAt   *time.Time
}

// Pause intervalo de pausa de mantenimiento, excluido del tiempo neto. EndedAt nil = pausa abierta.
type Pause struct {
	ID        string
	OrderID   string
	Reason    string
	StartedAt time.Time
	EndedAt   *time.Time
}

// IsOpen indica si la pausa sigue abierta.
func (p *Pause) IsOpen() bool { return p.EndedAt == nil }
