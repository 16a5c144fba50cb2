// Package analytics contiene las consultas de solo lectura para los reportes del taller.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

const unassigned = "SIN_ASIGNAR"

// ReportConfig parámetros inyectados desde la configuración.
type ReportConfig struct {
	TargetHours  int // objetivo SLA para OTs cerradas
	OverdueHours int // antigüedad a partir de la cual una OT activa se considera vencida
	TopParts     int
}

// DefaultReportConfig valores por defecto.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{TargetHours: 48, OverdueHours: 72, TopParts: 10}
}

// ReportUseCase agrega indicadores de OTs e inventario.
//
// Fuente de datos: ReportRepository (consultas read-only). Las agregaciones se hacen aquí
// para reutilizar las métricas del dominio.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	cfg        ReportConfig
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso. Valores no positivos toman el default.
func NewReportUseCase(reportRepo repository.ReportRepository, cfg ReportConfig) *ReportUseCase {
	def := DefaultReportConfig()
	if cfg.TargetHours <= 0 {
		cfg.TargetHours = def.TargetHours
	}
	if cfg.OverdueHours <= 0 {
		cfg.OverdueHours = def.OverdueHours
	}
	if cfg.TopParts <= 0 {
		cfg.TopParts = def.TopParts
	}
	return &ReportUseCase{reportRepo: reportRepo, cfg: cfg, now: time.Now}
}

type techAgg struct {
	orders   int
	closed   int
	netSum   time.Duration
	withinSL int
}

// Summary construye el resumen para el filtro dado.
//
// Dos consultas en paralelo:
//  1. ListOrderFacts   → conteos, tiempos, SLA, vencidas
//  2. TopConsumedParts → top repuestos por salidas
func (uc *ReportUseCase) Summary(ctx context.Context, f repository.ReportFilter) (*dto.ReportSummaryDTO, error) {
	type factsResult struct {
		facts []repository.OrderFact
		err   error
	}
	type partsResult struct {
		parts []repository.PartConsumption
		err   error
	}
	factsCh := make(chan factsResult, 1)
	partsCh := make(chan partsResult, 1)
	go func() {
		facts, err := uc.reportRepo.ListOrderFacts(ctx, f)
		factsCh <- factsResult{facts, err}
	}()
	go func() {
		parts, err := uc.reportRepo.TopConsumedParts(ctx, f, uc.cfg.TopParts)
		partsCh <- partsResult{parts, err}
	}()
	fr := <-factsCh
	pr := <-partsCh
	if fr.err != nil {
		return nil, fmt.Errorf("report summary: %w", fr.err)
	}
	if pr.err != nil {
		return nil, fmt.Errorf("report summary: %w", pr.err)
	}

	now := uc.now()
	target := time.Duration(uc.cfg.TargetHours) * time.Hour
	ageLimit := now.Add(-time.Duration(uc.cfg.OverdueHours) * time.Hour)

	out := &dto.ReportSummaryDTO{
		ByState:      make(map[string]int),
		ByPriority:   make(map[string]int),
		OverdueHours: uc.cfg.OverdueHours,
		SLA:          dto.SLASummary{TargetHours: uc.cfg.TargetHours},
		GeneratedAt:  now,
	}

	var (
		grossSum, netSum time.Duration
		pausedActive     int
		techs            = make(map[string]*techAgg)
	)
	for _, fact := range fr.facts {
		o := fact.Order
		out.ByState[string(o.State)]++
		out.ByPriority[string(o.Priority)]++

		tech := o.Technician
		if tech == "" {
			tech = unassigned
		}
		agg, ok := techs[tech]
		if !ok {
			agg = &techAgg{}
			techs[tech] = agg
		}
		agg.orders++

		if o.Active {
			out.Open++
			if fact.Paused {
				pausedActive++
			}
			if workorder.IsOverdue(o, now) {
				out.OverdueByDueDate++
			}
			if !o.CreatedAt.After(ageLimit) {
				out.OverdueByAge++
			}
			continue
		}

		out.Closed++
		if o.ClosedAt == nil || o.ClosedAt.Before(o.CreatedAt) {
			continue
		}
		gross := o.ClosedAt.Sub(o.CreatedAt)
		net := gross - time.Duration(fact.PausedSeconds)*time.Second
		if net < 0 {
			net = 0
		}
		grossSum += gross
		netSum += net
		out.SLA.Total++
		within := gross <= target
		if within {
			out.SLA.Within++
		}
		if o.Technician != "" {
			agg.closed++
			agg.netSum += net
			if within {
				agg.withinSL++
			}
		}
	}

	if out.SLA.Total > 0 {
		out.AvgCycleHours = hours(grossSum / time.Duration(out.SLA.Total))
		out.MTTRHours = hours(netSum / time.Duration(out.SLA.Total))
		out.SLA.Pct = pct(out.SLA.Within, out.SLA.Total)
	}
	if out.Open > 0 {
		out.PausedActivePct = pct(pausedActive, out.Open)
	}

	out.ByTechnician = make([]dto.TechnicianCount, 0, len(techs))
	out.MTTRByTechnician = []dto.TechnicianMTTR{}
	out.SLAByTechnician = []dto.TechnicianSLA{}
	for name, agg := range techs {
		out.ByTechnician = append(out.ByTechnician, dto.TechnicianCount{Technician: name, Orders: agg.orders})
		if agg.closed == 0 {
			continue
		}
		out.MTTRByTechnician = append(out.MTTRByTechnician, dto.TechnicianMTTR{
			Technician: name, Hours: hours(agg.netSum / time.Duration(agg.closed)), Closed: agg.closed,
		})
		out.SLAByTechnician = append(out.SLAByTechnician, dto.TechnicianSLA{
			Technician: name, Total: agg.closed, Within: agg.withinSL, Pct: pct(agg.withinSL, agg.closed),
		})
	}
	sort.Slice(out.ByTechnician, func(i, j int) bool {
		a, b := out.ByTechnician[i], out.ByTechnician[j]
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.Technician < b.Technician
	})
	// MTTR: el más rápido primero.
	sort.Slice(out.MTTRByTechnician, func(i, j int) bool {
		a, b := out.MTTRByTechnician[i], out.MTTRByTechnician[j]
		if a.Hours != b.Hours {
			return a.Hours < b.Hours
		}
		return a.Technician < b.Technician
	})
	// SLA: más OTs dentro del objetivo primero, luego más OTs cerradas.
	sort.Slice(out.SLAByTechnician, func(i, j int) bool {
		a, b := out.SLAByTechnician[i], out.SLAByTechnician[j]
		if a.Within != b.Within {
			return a.Within > b.Within
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Technician < b.Technician
	})

	out.TopParts = make([]dto.TopPartDTO, 0, len(pr.parts))
	for _, p := range pr.parts {
		out.TopParts = append(out.TopParts, dto.TopPartDTO{
			PartID: p.PartID, Code: p.Code, Description: p.Description, Total: p.Total,
		})
	}
	return out, nil
}

// ValidState valida el estado del filtro (vacío = todos).
func ValidState(s string) bool {
	return s == "" || entity.State(s).Valid()
}

func hours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func pct(part, total int) float64 {
	return math.Round(float64(part)*1000/float64(total)) / 10
}
