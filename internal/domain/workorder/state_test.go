package workorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/workorder"
)

func TestCanTransition_MatrizCompleta(t *testing.T) {
	allowed := map[entity.State][]entity.State{
		entity.StateIngresado:   {entity.StateDiagnostico},
		entity.StateDiagnostico: {entity.StateReparacion, entity.StateListo},
		entity.StateReparacion:  {entity.StateListo, entity.StateDiagnostico},
		entity.StateListo:       {entity.StateEntregado, entity.StateReparacion},
		entity.StateEntregado:   {entity.StateCerrado},
	}
	for _, from := range entity.AllStates {
		for _, to := range entity.AllStates {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, workorder.CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func TestNextStates_DevuelveCopia(t *testing.T) {
	next := workorder.NextStates(entity.StateDiagnostico)
	require.Len(t, next, 2)
	next[0] = entity.StateCerrado
	assert.False(t, workorder.CanTransition(entity.StateDiagnostico, entity.StateCerrado))
}

func TestValidateTransition_CerradaFallaAntesQueMatriz(t *testing.T) {
	order := &entity.WorkOrder{ID: "ot-1", State: entity.StateCerrado, Active: false}
	err := workorder.ValidateTransition(order, entity.StateDiagnostico)
	assert.ErrorIs(t, err, domain.ErrClosedOrder)
}

func TestValidateTransition_ParNoListado(t *testing.T) {
	order := &entity.WorkOrder{ID: "ot-1", State: entity.StateDiagnostico, Active: true}
	err := workorder.ValidateTransition(order, entity.StateEntregado)

	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "DIAGNOSTICO", trErr.From)
	assert.Equal(t, "ENTREGADO", trErr.To)
}

func TestValidateTransition_EstadoDesconocido(t *testing.T) {
	order := &entity.WorkOrder{ID: "ot-1", State: entity.StateIngresado, Active: true}
	err := workorder.ValidateTransition(order, entity.State("ARCHIVADO"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateTransition_Valida(t *testing.T) {
	order := &entity.WorkOrder{ID: "ot-1", State: entity.StateIngresado, Active: true}
	assert.NoError(t, workorder.ValidateTransition(order, entity.StateDiagnostico))
}
