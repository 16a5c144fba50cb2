package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	partRepo := postgres.NewPartRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewWorkOrderRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	pauseRepo := postgres.NewPauseRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	workshopRepo := postgres.NewWorkshopRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos posteriores al commit: auditoría, notificaciones y métricas.
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	dispatcher := events.NewDispatcher(log.Component("events"))
	dispatcher.Subscribe("audit", events.NewAuditSubscriber(postgres.NewAuditLogRepository(pool), time.Now))
	dispatcher.Subscribe("notifications", events.NewNotificationSubscriber(
		postgres.NewNotificationRepository(pool), cfg.Inventory.LowStockURL,
	))
	dispatcher.Subscribe("metrics", collector.Handle)

	workOrderUC := workorder.NewUseCase(workorder.Deps{
		TxRunner:  txRunner,
		Orders:    orderRepo,
		History:   historyRepo,
		Pauses:    pauseRepo,
		Vehicles:  vehicleRepo,
		Workshops: workshopRepo,
		Publisher: dispatcher,
	})
	catalogUC := workorder.NewCatalogUseCase(vehicleRepo, workshopRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, dispatcher)
	partUC := inventory.NewPartUseCase(partRepo, movementRepo, dispatcher)
	lowStockUC := inventory.NewLowStockUseCase(partRepo, reportRepo)
	reportUC := analytics.NewReportUseCase(reportRepo, analytics.ReportConfig{
		TargetHours:  cfg.Report.SLATargetHours,
		OverdueHours: cfg.Report.OverdueHours,
		TopParts:     cfg.Report.TopParts,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		WorkOrderUC:    workOrderUC,
		CatalogUC:      catalogUC,
		LedgerUC:       ledgerUC,
		PartUC:         partUC,
		LowStockUC:     lowStockUC,
		ReportUC:       reportUC,
		JWTSecret:      cfg.JWT.Secret,
		DB:             pool,
		Observer:       collector,
		MetricsHandler: promhttp.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
