package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/Taller-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	partID     = "part-1"
	orderID    = "ot-1"
	vehicleID  = "veh-1"
	workshopID = "tal-1"
)

type reportRepoStub struct{}

func (reportRepoStub) ListOrderFacts(context.Context, repository.ReportFilter) ([]repository.OrderFact, error) {
	return nil, nil
}

func (reportRepoStub) TopConsumedParts(context.Context, repository.ReportFilter, int) ([]repository.PartConsumption, error) {
	return nil, nil
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) error { return p.err }

type observerStub struct {
	routes []string
	status []int
}

func (o *observerStub) ObserveHTTP(_, route string, status int, _ time.Duration) {
	o.routes = append(o.routes, route)
	o.status = append(o.status, status)
}

type testEnv struct {
	app      *fiber.App
	store    *memstore.Store
	observer *observerStub
}

// newTestEnv levanta el router completo sobre el almacén en memoria con:
// un repuesto con stock 10 (mínimo 2) y una OT activa en REPARACION.
func newTestEnv(t *testing.T, db apphttp.Pinger) *testEnv {
	t.Helper()
	store := memstore.New()
	now := time.Now().UTC()
	store.AddVehicle(entity.Vehicle{ID: vehicleID, Plate: "ABCD12", Brand: "Toyota", Model: "Hilux", CreatedAt: now})
	store.AddWorkshop(entity.Workshop{ID: workshopID, Name: "Central", Capacity: 4, CreatedAt: now})
	store.AddPart(entity.Part{
		ID: partID, Code: "R-001", Description: "Filtro de aceite", Unit: entity.UnitPiece,
		CurrentQuantity: decimal.NewFromInt(10), MinQuantity: decimal.NewFromInt(2),
		Active: true, CreatedAt: now, UpdatedAt: now,
	})
	store.AddOrder(entity.WorkOrder{
		ID: orderID, Folio: "1001", VehicleID: vehicleID, WorkshopID: workshopID,
		State: entity.StateReparacion, Priority: entity.PriorityMedia, Active: true,
		CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now,
	})
	store.AddSegment(entity.HistoryStateSegment{ID: "seg-1", OrderID: orderID, State: entity.StateReparacion, StartedAt: now.Add(-time.Hour)})

	pub := events.NewDispatcher(zerolog.Nop())
	partRepo := store.Parts()
	obs := &observerStub{}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		WorkOrderUC: workorder.NewUseCase(workorder.Deps{
			TxRunner:  store.WorkOrderTx(),
			Orders:    store.WorkOrders(),
			History:   store.HistoryRepo(),
			Pauses:    store.PauseRepo(),
			Vehicles:  store.Vehicles(),
			Workshops: store.Workshops(),
			Publisher: pub,
		}),
		CatalogUC:  workorder.NewCatalogUseCase(store.Vehicles(), store.Workshops()),
		LedgerUC:   inventory.NewLedgerUseCase(store.InventoryTx(), pub),
		PartUC:     inventory.NewPartUseCase(partRepo, store.StockMovements(), pub),
		LowStockUC: inventory.NewLowStockUseCase(partRepo, reportRepoStub{}),
		ReportUC:   analytics.NewReportUseCase(reportRepoStub{}, analytics.ReportConfig{TargetHours: 48, OverdueHours: 72, TopParts: 10}),
		JWTSecret:  testJWTSecret,
		DB:         db,
		Observer:   obs,
	})
	return &testEnv{app: app, store: store, observer: obs}
}

func (e *testEnv) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// ─── Libro de stock ──────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaConOT201(t *testing.T) {
	env := newTestEnv(t, nil)
	ot := orderID

	resp, raw := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleMechanic, dto.RegisterMovementRequest{
		PartID: partID, Kind: "out", Quantity: decimal.NewFromInt(3), OrderID: &ot,
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var out dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.NewBalance.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, "OUT", out.Movement.Kind)
	assert.True(t, out.Movement.BalanceBefore.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, testUserID, out.Movement.CreatedBy)
	assert.False(t, out.LowStock)

	assert.True(t, env.store.Part(partID).CurrentQuantity.Equal(decimal.NewFromInt(7)))
}

func TestRegisterMovement_StockInsuficiente409(t *testing.T) {
	env := newTestEnv(t, nil)
	ot := orderID

	resp, raw := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleMechanic, dto.RegisterMovementRequest{
		PartID: partID, Kind: "OUT", Quantity: decimal.NewFromInt(999), OrderID: &ot,
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, raw).Code)
	assert.True(t, env.store.Part(partID).CurrentQuantity.Equal(decimal.NewFromInt(10)), "el saldo no cambia")
	assert.Empty(t, env.store.Movements(), "no se registra el movimiento")
}

func TestRegisterMovement_SalidaSinOT400(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleMechanic, dto.RegisterMovementRequest{
		PartID: partID, Kind: "OUT", Quantity: decimal.NewFromInt(1),
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)
}

func TestRegisterMovement_RecepcionNoPuede403(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleReception, dto.RegisterMovementRequest{
		PartID: partID, Kind: "IN", Quantity: decimal.NewFromInt(1),
	})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRegisterMovement_CuerpoInvalido400(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleMechanic))

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetPart_Inexistente404(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodGet, "/api/parts/no-existe", pkgjwt.RoleMechanic, nil)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestListPartMovements_PaginacionNormalizada(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, raw := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleMechanic, dto.RegisterMovementRequest{
		PartID: partID, Kind: "IN", Quantity: decimal.NewFromInt(2),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	cases := []struct {
		query     string
		wantLimit int
	}{
		{"?limit=0", dto.DefaultPageLimit},
		{"?limit=5000&offset=-3", dto.MaxPageLimit},
		{"", dto.DefaultPageLimit},
	}
	for _, tc := range cases {
		t.Run("consulta "+tc.query, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodGet, "/api/parts/"+partID+"/movements"+tc.query, pkgjwt.RoleMechanic, nil)

			require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
			var out struct {
				Total     int                    `json:"total"`
				Movements []dto.StockMovementDTO `json:"movements"`
				Page      dto.PageResponse       `json:"page"`
			}
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.Equal(t, 1, out.Total)
			assert.Len(t, out.Movements, 1)
			assert.Equal(t, tc.wantLimit, out.Page.Limit)
			assert.Equal(t, 0, out.Page.Offset)
		})
	}
}

func TestLowStock_ListaTrasConsumo(t *testing.T) {
	env := newTestEnv(t, nil)
	ot := orderID
	resp, raw := env.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleMechanic, dto.RegisterMovementRequest{
		PartID: partID, Kind: "OUT", Quantity: decimal.NewFromInt(8), OrderID: &ot,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodGet, "/api/inventory/low-stock", pkgjwt.RoleChief, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Total int                   `json:"total"`
		Items []dto.LowStockItemDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "R-001", out.Items[0].Code)
	assert.True(t, out.Items[0].CurrentQuantity.Equal(decimal.NewFromInt(2)))
}

// ─── Órdenes de trabajo ──────────────────────────────────────────────────────

func TestTransition_Invalida409(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodPost, "/api/work-orders/"+orderID+"/transitions", pkgjwt.RoleMechanic,
		dto.TransitionRequest{Target: "CERRADO"})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, raw).Code)
	assert.Equal(t, entity.StateReparacion, env.store.Order(orderID).State)
}

func TestTransition_ValidaDevuelveSiguientesEstados(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodPost, "/api/work-orders/"+orderID+"/transitions", pkgjwt.RoleMechanic,
		dto.TransitionRequest{Target: "listo"})

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out dto.WorkOrderDTO
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "LISTO", out.State)
	assert.NotEmpty(t, out.NextStates)
	assert.Len(t, env.store.History(orderID), 2)
}

func TestPausas_IniciarDosVeces409YFinalizar(t *testing.T) {
	env := newTestEnv(t, nil)
	path := "/api/work-orders/" + orderID + "/pauses"

	resp, raw := env.do(t, http.MethodPost, path, pkgjwt.RoleMechanic, dto.StartPauseRequest{Reason: "espera repuesto"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodPost, path, pkgjwt.RoleMechanic, dto.StartPauseRequest{Reason: "otra"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PAUSED", decodeError(t, raw).Code)

	resp, raw = env.do(t, http.MethodDelete, path+"/open", pkgjwt.RoleMechanic, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodDelete, path+"/open", pkgjwt.RoleMechanic, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_PAUSE_OPEN", decodeError(t, raw).Code)
}

func TestCreateWorkOrder_VehiculoConOTActiva409(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodPost, "/api/work-orders/", pkgjwt.RoleReception, dto.CreateWorkOrderRequest{
		Folio: "1002", VehicleID: vehicleID, WorkshopID: workshopID,
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_ACTIVE_ORDER", decodeError(t, raw).Code)
}

func TestGetWorkOrder_DetalleConHistorial(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodGet, "/api/work-orders/"+orderID, pkgjwt.RoleGuard, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out dto.WorkOrderDetailDTO
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ABCD12", out.Order.VehiclePlate)
	assert.Len(t, out.History, 1)
	assert.False(t, out.Metrics.Paused)
}

// ─── Reportes y endpoints públicos ───────────────────────────────────────────

func TestReports_MecanicoNoAccede403(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/reports/summary", pkgjwt.RoleMechanic, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReports_SupervisorConFiltros(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, raw := env.do(t, http.MethodGet, "/api/reports/summary?from=2026-01-01&to=2026-01-31&state=cerrado", pkgjwt.RoleSupervisor, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out dto.ReportSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Zero(t, out.Open)
}

func TestReports_RangoInvertido400(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/reports/summary?from=2026-02-01&to=2026-01-01", pkgjwt.RoleSupervisor, nil)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReports_EstadoDesconocido400(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/reports/summary?state=VOLANDO", pkgjwt.RoleChief, nil)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SinToken401(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/parts/", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Run("sin base de datos", func(t *testing.T) {
		env := newTestEnv(t, nil)
		resp, _ := env.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run("base de datos caída", func(t *testing.T) {
		env := newTestEnv(t, pingerStub{err: errors.New("connection refused")})
		resp, _ := env.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsMiddleware_UsaRutaRegistrada(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/parts/no-existe", pkgjwt.RoleMechanic, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NotEmpty(t, env.observer.routes)
	last := len(env.observer.routes) - 1
	assert.Equal(t, "/api/parts/:id", env.observer.routes[last])
	assert.Equal(t, fiber.StatusNotFound, env.observer.status[last])
}
