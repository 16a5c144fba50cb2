package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSummaryDTO respuesta de GET /api/reports/summary.
// Las horas se redondean a 2 decimales y los porcentajes a 1.
type ReportSummaryDTO struct {
	Open         int               `json:"open"`
	Closed       int               `json:"closed"`
	ByState      map[string]int    `json:"by_state"`
	ByPriority   map[string]int    `json:"by_priority"`
	ByTechnician []TechnicianCount `json:"by_technician"`

	AvgCycleHours    float64          `json:"avg_cycle_hours"` // cierre - ingreso, OTs cerradas
	MTTRHours        float64          `json:"mttr_hours"`      // igual, descontando pausas
	MTTRByTechnician []TechnicianMTTR `json:"mttr_by_technician"`
	PausedActivePct  float64          `json:"paused_active_pct"`

	SLA             SLASummary      `json:"sla"`
	SLAByTechnician []TechnicianSLA `json:"sla_by_technician"`

	OverdueByDueDate int `json:"overdue_by_due_date"` // activas con fecha compromiso vencida
	OverdueByAge     int `json:"overdue_by_age"`      // activas con más de OverdueHours desde el ingreso
	OverdueHours     int `json:"overdue_hours"`

	TopParts    []TopPartDTO `json:"top_parts"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// TechnicianCount OTs por mecánico. SIN_ASIGNAR agrupa las no asignadas.
type TechnicianCount struct {
	Technician string `json:"technician"`
	Orders     int    `json:"orders"`
}

// TechnicianMTTR tiempo medio de reparación por mecánico.
type TechnicianMTTR struct {
	Technician string  `json:"technician"`
	Hours      float64 `json:"hours"`
	Closed     int     `json:"closed"`
}

// SLASummary cumplimiento global del objetivo de horas sobre OTs cerradas.
type SLASummary struct {
	TargetHours int     `json:"target_hours"`
	Total       int     `json:"total"`
	Within      int     `json:"within"`
	Pct         float64 `json:"pct"`
}

// TechnicianSLA cumplimiento del objetivo por mecánico.
type TechnicianSLA struct {
	Technician string  `json:"technician"`
	Total      int     `json:"total"`
	Within     int     `json:"within"`
	Pct        float64 `json:"pct"`
}

// TopPartDTO repuesto más consumido (Σ salidas).
type TopPartDTO struct {
	PartID      string          `json:"part_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
}
