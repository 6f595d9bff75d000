// Package cli implementa stockctl, la herramienta de mantenimiento (migraciones y datos de ejemplo).
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-management-api/internal/application/maintenance"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-management-api/pkg/config"
	"github.com/jhoicas/stock-management-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "stockctl",
	Short:         "Mantenimiento de la Stock Management API",
	Long:          "stockctl aplica migraciones y carga o reinicia los datos de ejemplo en PostgreSQL.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute ejecuta el comando raíz.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
	}
	return err
}

// env dependencias compartidas por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		return nil, fmt.Errorf("stockctl requiere STORAGE_DRIVER=%s (actual: %s)", config.StoragePostgres, cfg.Storage.Driver)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) close() { e.pool.Close() }

// seeder construye el Seeder sobre los casos de uso ordinarios.
func (e *env) seeder() *maintenance.Seeder {
	tx := postgres.NewTxRunner(e.pool)
	categories := postgres.NewCategoryRepository(e.pool)
	products := postgres.NewProductRepository(e.pool)
	return maintenance.NewSeeder(
		usecase.NewCategoryUseCase(tx, categories, products),
		usecase.NewProductUseCase(tx, categories, products, e.cfg.Inventory.LowStockThreshold),
		e.log,
	)
}

func loadDataset(file string) (*maintenance.Dataset, error) {
	if file == "" {
		return maintenance.DefaultDataset(), nil
	}
	return maintenance.LoadDataset(file)
}
