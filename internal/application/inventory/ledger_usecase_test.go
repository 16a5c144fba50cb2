package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
)

var _ inventory.TxRunner = (*memstore.InventoryTx)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name())
	}
	return out
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func strPtr(s string) *string { return &s }

// fixture: repuesto R-001 con stock 10 y mínimo 2, y una OT activa.
func fixture(t *testing.T) (*memstore.Store, *inventory.LedgerUseCase, *recordingPublisher) {
	t.Helper()
	store := memstore.New()
	store.AddPart(entity.Part{
		ID: "p-1", Code: "R-001", Description: "Filtro de aceite", Unit: entity.UnitPiece,
		CurrentQuantity: d("10"), MinQuantity: d("2"), Active: true,
	})
	store.AddOrder(entity.WorkOrder{ID: "ot-1", Folio: "1001", VehicleID: "v-1", State: entity.StateReparacion, Active: true})
	store.AddOrder(entity.WorkOrder{ID: "ot-cerrada", Folio: "0999", VehicleID: "v-2", State: entity.StateCerrado, Active: false})
	pub := &recordingPublisher{}
	return store, inventory.NewLedgerUseCase(store.InventoryTx(), pub), pub
}

func out(qty string) inventory.MovementInput {
	return inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindOut, Quantity: d(qty),
		Reason: "Consumo en OT", OrderID: strPtr("ot-1"), Actor: "u-mec",
	}
}

// ── Escenario A ────────────────────────────────────────────────────────────

func TestApplyMovement_ConsumoDescuentaYRegistraSaldos(t *testing.T) {
	store, uc, pub := fixture(t)

	res, err := uc.ApplyMovement(context.Background(), out("3"))
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(d("7")))
	assert.False(t, res.LowStock)
	assert.True(t, res.Movement.BalanceBefore.Equal(d("10")))
	assert.True(t, res.Movement.BalanceAfter.Equal(d("7")))
	assert.Equal(t, "u-mec", res.Movement.CreatedBy)

	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("7")))
	assert.Len(t, store.Movements(), 1)
	assert.Equal(t, []string{events.NameMovementApplied}, pub.names())
}

func TestApplyMovement_SalidaSinStockNoEscribe(t *testing.T) {
	store, uc, pub := fixture(t)
	_, err := uc.ApplyMovement(context.Background(), out("3"))
	require.NoError(t, err)

	_, err = uc.ApplyMovement(context.Background(), out("999"))

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "R-001", stockErr.PartCode)
	assert.True(t, stockErr.Available.Equal(d("7")))
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("7")))
	assert.Len(t, store.Movements(), 1)
	assert.Len(t, pub.names(), 1, "un fallo no publica eventos")
}

// ── Escenario E y precondiciones ───────────────────────────────────────────

func TestApplyMovement_ConsumoSinOTFallaAntesDeEscribir(t *testing.T) {
	store, uc, pub := fixture(t)
	in := out("1")
	in.OrderID = nil

	_, err := uc.ApplyMovement(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.Movements())
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("10")))
	assert.Empty(t, pub.names())
}

func TestApplyMovement_OTInexistenteEsValidacion(t *testing.T) {
	_, uc, _ := fixture(t)
	in := out("1")
	in.OrderID = strPtr("ot-x")

	_, err := uc.ApplyMovement(context.Background(), in)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "order_id", vErr.Field)
}

func TestApplyMovement_OTCerradaRechazaConsumo(t *testing.T) {
	store, uc, _ := fixture(t)
	in := out("1")
	in.OrderID = strPtr("ot-cerrada")

	_, err := uc.ApplyMovement(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrClosedOrder)
	assert.Empty(t, store.Movements())
}

func TestApplyMovement_RepuestoInexistente(t *testing.T) {
	_, uc, _ := fixture(t)
	in := out("1")
	in.PartID = "p-x"
	_, err := uc.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_RepuestoInactivo(t *testing.T) {
	store, uc, _ := fixture(t)
	store.AddPart(entity.Part{ID: "p-2", Code: "R-002", CurrentQuantity: d("5"), Active: false})
	in := out("1")
	in.PartID = "p-2"
	_, err := uc.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyMovement_AjusteRequiereMotivo(t *testing.T) {
	_, uc, _ := fixture(t)
	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindAdjust, Quantity: d("-1"), Reason: "  ", Actor: "u-1",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyMovement_EntradaConOTVaciaSeGuardaSinOT(t *testing.T) {
	store, uc, _ := fixture(t)
	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindIn, Quantity: d("1"), OrderID: strPtr("  "), Actor: "u-bod",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Movement.OrderID)
	require.Len(t, store.Movements(), 1)
	assert.Nil(t, store.Movements()[0].OrderID)
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("11")))
}

func TestApplyMovement_AjusteConOTInexistenteEsValidacion(t *testing.T) {
	store, uc, pub := fixture(t)
	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindAdjust, Quantity: d("1"), Reason: "conteo",
		OrderID: strPtr("no-existe"), Actor: "u-1",
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "order_id", vErr.Field)
	assert.Empty(t, store.Movements())
	assert.Empty(t, pub.names())
}

func TestApplyMovement_AjusteConOTCerradaSeRechaza(t *testing.T) {
	store, uc, _ := fixture(t)
	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindAdjust, Quantity: d("-1"), Reason: "merma",
		OrderID: strPtr("ot-cerrada"), Actor: "u-1",
	})

	assert.ErrorIs(t, err, domain.ErrClosedOrder)
	assert.Empty(t, store.Movements())
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("10")))
}

func TestApplyMovement_SalidaSinMotivoUsaConsumoEnOT(t *testing.T) {
	_, uc, _ := fixture(t)
	in := out("1")
	in.Reason = ""
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Consumo en OT", res.Movement.Reason)
}

// ── Stock bajo ─────────────────────────────────────────────────────────────

func TestApplyMovement_LlegarAlMinimoPublicaStockBajo(t *testing.T) {
	_, uc, pub := fixture(t)

	res, err := uc.ApplyMovement(context.Background(), out("8"))
	require.NoError(t, err)
	assert.True(t, res.LowStock)
	assert.Equal(t, []string{events.NameMovementApplied, events.NameLowStockReached}, pub.names())

	low := pub.events[1].(events.LowStockReached)
	assert.Equal(t, "u-mec", low.Actor)
	assert.True(t, low.Part.CurrentQuantity.Equal(d("2")))
}

func TestApplyMovement_EntradaNuncaAlertaStockBajo(t *testing.T) {
	store, uc, pub := fixture(t)
	store.AddPart(entity.Part{ID: "p-3", Code: "R-003", CurrentQuantity: d("0"), MinQuantity: d("5"), Active: true})

	res, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		PartID: "p-3", Kind: entity.MovementKindIn, Quantity: d("1"), Reason: "Compra", Actor: "u-1",
	})
	require.NoError(t, err)
	assert.False(t, res.LowStock)
	assert.Equal(t, []string{events.NameMovementApplied}, pub.names())
}

// ── Atomicidad ─────────────────────────────────────────────────────────────

func TestApplyMovement_FalloAlGuardarSaldoRevierteMovimiento(t *testing.T) {
	store, uc, pub := fixture(t)
	store.FailOn("parts.UpdateQuantity", errors.New("conexión perdida"))

	_, err := uc.ApplyMovement(context.Background(), out("3"))

	require.Error(t, err)
	assert.Empty(t, store.Movements())
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("10")))
	assert.Empty(t, pub.names())
}

// ── Propiedades ────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaYSalidaRestauranSaldo(t *testing.T) {
	store, uc, _ := fixture(t)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{
		PartID: "p-1", Kind: entity.MovementKindIn, Quantity: d("4.25"), Reason: "Compra", Actor: "u-1",
	})
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, out("4.25"))
	require.NoError(t, err)

	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("10")))
}

func TestApplyMovement_SalidasConcurrentesNuncaDejanNegativo(t *testing.T) {
	store, uc, _ := fixture(t)
	const workers = 25 // 25 * 3 > 10
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.ApplyMovement(ctx, out("3"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 3, successes, "floor(10/3)")
	assert.Equal(t, workers-3, rejected)
	assert.True(t, store.Part("p-1").CurrentQuantity.Equal(d("1")))
	assert.Len(t, store.Movements(), 3)
}
