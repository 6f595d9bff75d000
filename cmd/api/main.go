package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-management-api/docs"
	"github.com/jhoicas/stock-management-api/internal/application/inventory"
	"github.com/jhoicas/stock-management-api/internal/application/maintenance"
	"github.com/jhoicas/stock-management-api/internal/application/ports"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-management-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-management-api/internal/interfaces/http"
	"github.com/jhoicas/stock-management-api/pkg/config"
	"github.com/jhoicas/stock-management-api/pkg/logger"
	"github.com/jhoicas/stock-management-api/pkg/telemetry"
)

// storage agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	tx          ports.TxRunner
	categories  repository.CategoryRepository
	products    repository.ProductRepository
	healthCheck func(ctx context.Context) error
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.App.Name,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error().Err(err).Msg("cerrar proveedor de trazas")
		}
	}()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	categoryUC := usecase.NewCategoryUseCase(store.tx, store.categories, store.products)
	productUC := usecase.NewProductUseCase(store.tx, store.categories, store.products, cfg.Inventory.LowStockThreshold)
	stockUC := inventory.NewStockUseCase(store.tx)

	// PDF: reporte de productos con stock bajo
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := inventory.NewLowStockReportUseCase(store.products, pdfGenerator)

	if cfg.Seed.OnStart {
		if err := seedOnStart(ctx, cfg.Seed.File, maintenance.NewSeeder(categoryUC, productUC, log)); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de ejemplo")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:  categoryUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		ReportUC:    reportUC,
		HealthCheck: store.healthCheck,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		os.Exit(1)
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			tx:         s,
			categories: s.Categories(),
			products:   s.Products(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		tx:          postgres.NewTxRunner(pool),
		categories:  postgres.NewCategoryRepository(pool),
		products:    postgres.NewProductRepository(pool),
		healthCheck: pool.Ping,
		close:       pool.Close,
	}, nil
}

func seedOnStart(ctx context.Context, file string, seeder *maintenance.Seeder) error {
	ds := maintenance.DefaultDataset()
	if file != "" {
		var err error
		if ds, err = maintenance.LoadDataset(file); err != nil {
			return err
		}
	}
	_, err := seeder.Seed(ctx, ds)
	return err
}
