package workorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func tp(t time.Time) *time.Time { return &t }

func TestNetDurationSeconds_SinPausas(t *testing.T) {
	order := &entity.WorkOrder{CreatedAt: at(0)}
	assert.Equal(t, int64(10*3600), workorder.NetDurationSeconds(order, nil, at(10)))
}

func TestNetDurationSeconds_DescuentaPausasCerradasYAbierta(t *testing.T) {
	order := &entity.WorkOrder{CreatedAt: at(0)}
	pauses := []*entity.Pause{
		{StartedAt: at(1), EndedAt: tp(at(3))}, // 2h
		{StartedAt: at(8)},                     // abierta: 2h hasta now
	}
	assert.Equal(t, int64(6*3600), workorder.NetDurationSeconds(order, pauses, at(10)))
}

func TestNetDurationSeconds_OTCerradaUsaFechaCierre(t *testing.T) {
	order := &entity.WorkOrder{CreatedAt: at(0), ClosedAt: tp(at(5))}
	pauses := []*entity.Pause{{StartedAt: at(1), EndedAt: tp(at(2))}}
	assert.Equal(t, int64(4*3600), workorder.NetDurationSeconds(order, pauses, at(100)))
}

func TestNetDurationSeconds_NuncaNegativo(t *testing.T) {
	order := &entity.WorkOrder{CreatedAt: at(5)}
	assert.Equal(t, int64(0), workorder.NetDurationSeconds(order, nil, at(1)))
}

func TestIsOverdue(t *testing.T) {
	sinFecha := &entity.WorkOrder{CreatedAt: at(0)}
	assert.False(t, workorder.IsOverdue(sinFecha, at(1000)))

	vencida := &entity.WorkOrder{CreatedAt: at(0), DueDate: tp(at(24))}
	assert.True(t, workorder.IsOverdue(vencida, at(25)))
	assert.False(t, workorder.IsOverdue(vencida, at(24)), "igual a la fecha compromiso no está vencida")

	cerradaATiempo := &entity.WorkOrder{CreatedAt: at(0), DueDate: tp(at(24)), ClosedAt: tp(at(20))}
	assert.False(t, workorder.IsOverdue(cerradaATiempo, at(200)))
}

func TestOpenPause(t *testing.T) {
	closed := &entity.Pause{ID: "p1", StartedAt: at(1), EndedAt: tp(at(2))}
	open := &entity.Pause{ID: "p2", StartedAt: at(3)}
	assert.Nil(t, workorder.OpenPause([]*entity.Pause{closed}))
	assert.Equal(t, "p2", workorder.OpenPause([]*entity.Pause{closed, open}).ID)
}
