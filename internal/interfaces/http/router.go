package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/pkg/jwt"
)

// HTTPObserver recibe cada petición respondida (lo implementa metrics.Collector).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Pinger verifica la conexión a la base de datos para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorkOrderUC *workorder.UseCase
	CatalogUC   *workorder.CatalogUseCase
	LedgerUC    *inventory.LedgerUseCase
	PartUC      *inventory.PartUseCase
	LowStockUC  *inventory.LowStockUseCase
	ReportUC    *analytics.ReportUseCase
	JWTSecret   string

	DB             Pinger       // opcional
	Observer       HTTPObserver // opcional
	MetricsHandler http.Handler // opcional: promhttp.Handler()
}

// Roles por grupo de operaciones. ADMIN pasa siempre (RequireRole).
var (
	rolesIntake   = []string{jwt.RoleReception, jwt.RoleChief}
	rolesWorkshop = []string{jwt.RoleMechanic, jwt.RoleChief}
	rolesPlanning = []string{jwt.RoleChief}
	rolesReports  = []string{jwt.RoleSupervisor, jwt.RoleChief}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Observer != nil {
		app.Use(MetricsMiddleware(deps.Observer))
	}

	app.Get("/health", healthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	catalog := NewCatalogHandler(deps.CatalogUC)
	api.Post("/vehicles", RequireRole(rolesIntake...), catalog.CreateVehicle)
	api.Post("/workshops", RequireRole(rolesIntake...), catalog.CreateWorkshop)
	api.Get("/workshops", catalog.ListWorkshops)

	// Órdenes de trabajo
	orders := api.Group("/work-orders")
	orderHandler := NewWorkOrderHandler(deps.WorkOrderUC, deps.PartUC)
	orders.Post("/", RequireRole(rolesIntake...), orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/metrics", orderHandler.Metrics)
	orders.Get("/:id/movements", orderHandler.ListMovements)
	orders.Post("/:id/transitions", RequireRole(rolesWorkshop...), orderHandler.Transition)
	orders.Post("/:id/pauses", RequireRole(rolesWorkshop...), orderHandler.StartPause)
	orders.Delete("/:id/pauses/open", RequireRole(rolesWorkshop...), orderHandler.EndPause)
	orders.Patch("/:id/planning", RequireRole(rolesPlanning...), orderHandler.UpdatePlanning)

	// Repuestos y libro de stock
	invHandler := NewInventoryHandler(deps.LedgerUC, deps.PartUC, deps.LowStockUC)
	parts := api.Group("/parts")
	parts.Post("/", RequireRole(rolesPlanning...), invHandler.CreatePart)
	parts.Get("/", invHandler.ListParts)
	parts.Get("/:id", invHandler.GetPart)
	parts.Put("/:id", RequireRole(rolesPlanning...), invHandler.UpdatePart)
	parts.Get("/:id/movements", invHandler.ListPartMovements)

	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", RequireRole(rolesWorkshop...), invHandler.RegisterMovement)
	invGroup.Get("/low-stock", invHandler.LowStock)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/reports/summary", RequireRole(rolesReports...), reportHandler.Summary)
}

func healthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// MetricsMiddleware mide cada petición con la ruta registrada (no la URL cruda) como etiqueta.
func MetricsMiddleware(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = StatusFor(err)
		}
		obs.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
