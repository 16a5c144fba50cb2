package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type reportStub struct {
	facts    []repository.OrderFact
	parts    []repository.PartConsumption
	err      error
	filter   repository.ReportFilter
	topLimit int
}

func (s *reportStub) ListOrderFacts(_ context.Context, f repository.ReportFilter) ([]repository.OrderFact, error) {
	s.filter = f
	return s.facts, s.err
}

func (s *reportStub) TopConsumedParts(_ context.Context, _ repository.ReportFilter, limit int) ([]repository.PartConsumption, error) {
	s.topLimit = limit
	return s.parts, nil
}

var now = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func hoursAgo(h float64) time.Time { return now.Add(-time.Duration(h * float64(time.Hour))) }

func ptr(t time.Time) *time.Time { return &t }

func closed(tech string, createdHoursAgo, durationHours float64, pausedSeconds int64) repository.OrderFact {
	created := hoursAgo(createdHoursAgo)
	end := created.Add(time.Duration(durationHours * float64(time.Hour)))
	return repository.OrderFact{
		Order: &entity.WorkOrder{
			State: entity.StateCerrado, Priority: entity.PriorityMedia, Technician: tech,
			CreatedAt: created, ClosedAt: ptr(end),
		},
		PausedSeconds: pausedSeconds,
	}
}

func active(tech string, state entity.State, createdHoursAgo float64, paused bool, due *time.Time) repository.OrderFact {
	return repository.OrderFact{
		Order: &entity.WorkOrder{
			State: state, Priority: entity.PriorityAlta, Technician: tech, Active: true,
			CreatedAt: hoursAgo(createdHoursAgo), DueDate: due,
		},
		Paused: paused,
	}
}

func newReport(stub *reportStub) *ReportUseCase {
	uc := NewReportUseCase(stub, ReportConfig{TargetHours: 48, OverdueHours: 72, TopParts: 5})
	uc.now = func() time.Time { return now }
	return uc
}

func TestSummary_ConteosYTiempos(t *testing.T) {
	stub := &reportStub{
		facts: []repository.OrderFact{
			closed("ana", 200, 24, 0),       // dentro de SLA
			closed("ana", 200, 72, 3600*12), // fuera de SLA; neto 60h
			closed("", 100, 10, 0),          // sin mecánico
			active("luis", entity.StateReparacion, 80, true, nil),
			active("luis", entity.StateDiagnostico, 5, false, ptr(now.Add(-time.Hour))),
		},
		parts: []repository.PartConsumption{{PartID: "p-1", Code: "R-001", Description: "Filtro", Total: decimal.NewFromInt(12)}},
	}

	got, err := newReport(stub).Summary(context.Background(), repository.ReportFilter{WorkshopID: "w-1"})
	require.NoError(t, err)

	assert.Equal(t, "w-1", stub.filter.WorkshopID)
	assert.Equal(t, 5, stub.topLimit)
	assert.Equal(t, 2, got.Open)
	assert.Equal(t, 3, got.Closed)
	assert.Equal(t, 3, got.ByState["CERRADO"])
	assert.Equal(t, 1, got.ByState["REPARACION"])
	assert.Equal(t, 3, got.ByPriority["MEDIA"])
	assert.Equal(t, 2, got.ByPriority["ALTA"])

	// (24 + 72 + 10) / 3
	assert.InDelta(t, 35.33, got.AvgCycleHours, 0.001)
	// (24 + 60 + 10) / 3
	assert.InDelta(t, 31.33, got.MTTRHours, 0.001)

	assert.Equal(t, 3, got.SLA.Total)
	assert.Equal(t, 2, got.SLA.Within)
	assert.InDelta(t, 66.7, got.SLA.Pct, 0.001)
	assert.Equal(t, 48, got.SLA.TargetHours)

	assert.InDelta(t, 50.0, got.PausedActivePct, 0.001)
	assert.Equal(t, 1, got.OverdueByDueDate)
	assert.Equal(t, 1, got.OverdueByAge)
	assert.Equal(t, 72, got.OverdueHours)

	require.Len(t, got.MTTRByTechnician, 1)
	assert.Equal(t, "ana", got.MTTRByTechnician[0].Technician)
	assert.InDelta(t, 42.0, got.MTTRByTechnician[0].Hours, 0.001)
	require.Len(t, got.SLAByTechnician, 1)
	assert.Equal(t, 1, got.SLAByTechnician[0].Within)
	assert.InDelta(t, 50.0, got.SLAByTechnician[0].Pct, 0.001)

	require.Len(t, got.ByTechnician, 3)
	assert.Equal(t, "ana", got.ByTechnician[0].Technician)
	assert.Equal(t, "luis", got.ByTechnician[1].Technician)
	assert.Equal(t, unassigned, got.ByTechnician[2].Technician)

	require.Len(t, got.TopParts, 1)
	assert.Equal(t, "R-001", got.TopParts[0].Code)
}

func TestSummary_SinDatosNoDivide(t *testing.T) {
	got, err := newReport(&reportStub{}).Summary(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, got.AvgCycleHours)
	assert.Zero(t, got.SLA.Pct)
	assert.Zero(t, got.PausedActivePct)
	assert.NotNil(t, got.ByTechnician)
	assert.NotNil(t, got.TopParts)
}

func TestSummary_PropagaErrorDelRepositorio(t *testing.T) {
	_, err := newReport(&reportStub{err: errors.New("db caída")}).Summary(context.Background(), repository.ReportFilter{})
	assert.ErrorContains(t, err, "db caída")
}

func TestNewReportUseCase_Defaults(t *testing.T) {
	uc := NewReportUseCase(&reportStub{}, ReportConfig{})
	assert.Equal(t, DefaultReportConfig(), uc.cfg)
}

func TestValidState(t *testing.T) {
	assert.True(t, ValidState(""))
	assert.True(t, ValidState("LISTO"))
	assert.False(t, ValidState("ARCHIVADO"))
}
