//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/inventory"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-management-api/pkg/config"
)

func setupPostgresContainer(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stock_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

type pgFixture struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	stock      *inventory.StockUseCase
}

func newPgFixture(pool *pgxpool.Pool) *pgFixture {
	tx := postgres.NewTxRunner(pool)
	categories := postgres.NewCategoryRepository(pool)
	products := postgres.NewProductRepository(pool)
	return &pgFixture{
		categories: usecase.NewCategoryUseCase(tx, categories, products),
		products:   usecase.NewProductUseCase(tx, categories, products, 0),
		stock:      inventory.NewStockUseCase(tx),
	}
}

func TestIntegration_StockAndCategoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	f := newPgFixture(pool)
	ctx := context.Background()

	c, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Electronics", Description: "Electronic devices and accessories"})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Electronics"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := f.products.Create(ctx, dto.CreateProductRequest{
		Name: "Smartphone X", Price: decimal.RequireFromString("999.99"), Quantity: 10, SKU: "ELEC-SP-001", CategoryID: c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", p.CategoryName)

	// Dos productos sin SKU conviven con el índice único parcial.
	for _, name := range []string{"Genérico 1", "Genérico 2"} {
		_, err = f.products.Create(ctx, dto.CreateProductRequest{Name: name, CategoryID: c.ID})
		require.NoError(t, err)
	}

	// Dos REMOVE concurrentes de 7 sobre 10: exactamente uno gana.
	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			qty := 7
			_, err := f.stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: p.ID, QuantityChange: &qty, OperationType: "REMOVE"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 1, conflicts.Load())

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	found, err := f.products.Search(ctx, "SMART", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)

	low, err := f.products.ListLowStock(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, low, 3)

	// Con productos, la categoría no se puede borrar.
	err = f.categories.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)

	all, err := f.products.List(ctx)
	require.NoError(t, err)
	for _, item := range all {
		require.NoError(t, f.products.Delete(ctx, item.ID))
	}
	require.NoError(t, f.categories.Delete(ctx, c.ID))
}

// Borrado de categoría contra alta concurrente de producto: nunca queda un producto huérfano.
func TestIntegration_CategoryDeleteRacesProductCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	f := newPgFixture(pool)
	ctx := context.Background()

	for i := range 20 {
		c, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: fmt.Sprintf("Volatile %d", i)})
		require.NoError(t, err)

		var (
			g                    errgroup.Group
			deleteErr, createErr error
		)
		g.Go(func() error {
			deleteErr = f.categories.Delete(ctx, c.ID)
			return nil
		})
		g.Go(func() error {
			_, createErr = f.products.Create(ctx, dto.CreateProductRequest{Name: "Item", CategoryID: c.ID})
			return nil
		})
		require.NoError(t, g.Wait())

		switch {
		case deleteErr == nil:
			assert.ErrorIs(t, createErr, domain.ErrNotFound)
		case errors.Is(deleteErr, domain.ErrConflict):
			assert.NoError(t, createErr)
		default:
			t.Fatalf("error inesperado al borrar: %v", deleteErr)
		}
	}

	var orphans int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products p
		WHERE NOT EXISTS (SELECT 1 FROM categories c WHERE c.id = p.category_id)`).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

// Un ADD que superaría INTEGER se rechaza sin tocar la fila.
func TestIntegration_StockAddOverflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	f := newPgFixture(pool)
	ctx := context.Background()

	c, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Bulk"})
	require.NoError(t, err)
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Screws", Quantity: 10, CategoryID: c.ID})
	require.NoError(t, err)

	qty := math.MaxInt32
	_, err = f.stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: p.ID, QuantityChange: &qty, OperationType: "ADD"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}
