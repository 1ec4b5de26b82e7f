package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/application/inventory"
	"github.com/jhoicas/almacen-obra-api/internal/application/usecase"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/almacen-obra-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/sse"
	httpRouter "github.com/jhoicas/almacen-obra-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-obra-api/pkg/config"
	"github.com/jhoicas/almacen-obra-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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

	defaultPeriod, err := stats.ParsePeriod(cfg.Dashboard.DefaultPeriod)
	if err != nil {
		log.Fatal().Err(err).Str("period", cfg.Dashboard.DefaultPeriod).Msg("DASHBOARD_DEFAULT_PERIOD inválido")
	}

	// ctx de vida del proceso: lo cancela la señal de apagado
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché del catálogo: Redis si está configurado, si no en memoria del proceso
	var backend analytics.CacheBackend = cache.NewMemory()
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, caché en memoria")
		} else {
			defer rdb.Close()
			backend = cache.NewRedis(rdb, "")
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de catálogo en Redis")
		}
	}

	// Repositorios
	movementRepo := postgres.NewMovementRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	requesterRepo := postgres.NewRequesterRepository(pool)
	commandRepo := postgres.NewStockCommandRepository(pool)

	catalog := analytics.NewCatalogCache(
		postgres.NewCatalogRepository(pool), backend, cfg.Redis.CatalogCacheTTL, log.Zerolog(),
	)
	loader := analytics.NewLoader(analytics.LoaderDeps{
		Movements:    movementRepo,
		Requisitions: postgres.NewRequisitionRepository(pool),
		Inventory:    postgres.NewInventoryRepository(pool),
		Corrections:  postgres.NewCorrectionRepository(pool),
		Catalog:      catalog,
	}, log.Zerolog())

	// Avisos de cambio (LISTEN/NOTIFY) → recarga → difusión SSE
	notifier := postgres.NewNotifier(pool, cfg.DB.NotifyChannel, log.Component("notifier"))
	go notifier.Run(ctx)
	hub := sse.NewHub(log.Zerolog())
	monitor := analytics.NewMonitor(ctx, loader.Load, notifier, hub, cfg.Dashboard.LoadTimeout, log.Zerolog())

	// Casos de uso
	codec := spreadsheet.NewCodec()
	pdfGenerator := infrapdf.NewDashboardReportGenerator(cfg.App.Name)
	dashboardUC := analytics.NewDashboardUseCase(monitor, catalog, pdfGenerator, defaultPeriod)
	stockUC := inventory.NewStockUseCase(commandRepo, movementRepo, catalog, codec, log.Zerolog())
	materialUC := usecase.NewMaterialUseCase(materialRepo, categoryRepo, catalog)
	materialSheetUC := usecase.NewMaterialSheetUseCase(materialRepo, categoryRepo, codec, catalog, log.Zerolog())
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, catalog)
	requesterUC := usecase.NewRequesterUseCase(requesterRepo)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// sin WriteTimeout: los streams SSE quedan abiertos
		IdleTimeout: time.Second * 60,
		BodyLimit:   cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Almacén de Obra API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Dashboard:  httpRouter.NewDashboardHandler(dashboardUC, hub, 25*time.Second),
		Stock:      httpRouter.NewStockHandler(stockUC),
		Materials:  httpRouter.NewMaterialHandler(materialUC, materialSheetUC),
		Categories: httpRouter.NewCategoryHandler(categoryUC),
		Requesters: httpRouter.NewRequesterHandler(requesterUC),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// primero los streams SSE para que el apagado no espere a clientes abiertos
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	monitor.Close()

	log.Info().Msg("aplicación detenida")
}
