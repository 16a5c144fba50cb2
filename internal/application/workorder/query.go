package workorder

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

// OrderMetrics métricas derivadas de una OT al instante de la consulta.
type OrderMetrics struct {
	NetDurationSeconds   int64
	GrossDurationSeconds int64
	PausedSeconds        int64
	IsOverdue            bool
	Paused               bool
}

// OrderDetail OT con su historial de estados, pausas y métricas.
type OrderDetail struct {
	Order   *entity.WorkOrder
	History []*entity.HistoryStateSegment
	Pauses  []*entity.Pause
	Metrics OrderMetrics
}

// ComputeMetrics calcula las métricas de una OT a partir de sus pausas.
func ComputeMetrics(order *entity.WorkOrder, pauses []*entity.Pause, now time.Time) OrderMetrics {
	return OrderMetrics{
		NetDurationSeconds:   workorder.NetDurationSeconds(order, pauses, now),
		GrossDurationSeconds: int64(workorder.GrossDuration(order, now) / time.Second),
		PausedSeconds:        int64(workorder.PausedDuration(order, pauses, now) / time.Second),
		IsOverdue:            workorder.IsOverdue(order, now),
		Paused:               workorder.OpenPause(pauses) != nil,
	}
}

// Get devuelve la OT con historial, pausas y métricas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := uc.historyRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	pauses, err := uc.pauseRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{
		Order:   order,
		History: history,
		Pauses:  pauses,
		Metrics: ComputeMetrics(order, pauses, uc.now()),
	}, nil
}

// Metrics devuelve solo las métricas de la OT.
func (uc *UseCase) Metrics(ctx context.Context, orderID string) (*OrderMetrics, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	pauses, err := uc.pauseRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	m := ComputeMetrics(order, pauses, uc.now())
	return &m, nil
}
