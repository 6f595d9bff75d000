package inventory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/inventory"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/memory"
)

func intPtr(v int) *int { return &v }

// newStockFixture crea una categoría y un producto con la cantidad indicada.
func newStockFixture(t *testing.T, qty int) (*inventory.StockUseCase, *usecase.ProductUseCase, string) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	categories := usecase.NewCategoryUseCase(s, s.Categories(), s.Products())
	products := usecase.NewProductUseCase(s, s.Categories(), s.Products(), 0)

	c, err := categories.Create(ctx, dto.CreateCategoryRequest{Name: "Electronics"})
	require.NoError(t, err)
	p, err := products.Create(ctx, dto.CreateProductRequest{
		Name:       "Smartphone X",
		Price:      decimal.RequireFromString("999.99"),
		Quantity:   qty,
		SKU:        "ELEC-SP-001",
		CategoryID: c.ID,
	})
	require.NoError(t, err)
	return inventory.NewStockUseCase(s), products, p.ID
}

func TestStockUseCase_Operations(t *testing.T) {
	ctx := context.Background()
	stock, products, id := newStockFixture(t, 10)

	got, err := stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(5), OperationType: "ADD"})
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	assert.Equal(t, "Electronics", got.CategoryName)

	got, err = stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(15), OperationType: "REMOVE"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	got, err = stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(7), OperationType: "SET", Notes: "inventario físico"})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	stored, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)
}

func TestStockUseCase_Rejections(t *testing.T) {
	ctx := context.Background()
	stock, products, id := newStockFixture(t, 3)

	cases := []struct {
		name string
		in   dto.StockUpdateRequest
		kind error
	}{
		{"remove excede el stock", dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(4), OperationType: "REMOVE"}, domain.ErrConflict},
		{"set negativo", dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(-1), OperationType: "SET"}, domain.ErrConflict},
		{"add negativo", dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(-1), OperationType: "ADD"}, domain.ErrInvalidInput},
		{"operación desconocida", dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(1), OperationType: "MOVE"}, domain.ErrInvalidInput},
		{"sin quantityChange", dto.StockUpdateRequest{ProductID: id, OperationType: "ADD"}, domain.ErrInvalidInput},
		{"producto inexistente", dto.StockUpdateRequest{ProductID: "99999999-9999-9999-9999-999999999999", QuantityChange: intPtr(1), OperationType: "ADD"}, domain.ErrNotFound},
		{"id mal formado", dto.StockUpdateRequest{ProductID: "abc", QuantityChange: intPtr(1), OperationType: "ADD"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stock.UpdateStock(ctx, tc.in)
			assert.ErrorIs(t, err, tc.kind)
		})
	}

	stored, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity, "un rechazo no modifica el producto")
}

// Dos REMOVE concurrentes de 7 sobre 10 unidades: exactamente uno gana.
func TestStockUseCase_ConcurrentRemove(t *testing.T) {
	ctx := context.Background()
	stock, products, id := newStockFixture(t, 10)

	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			_, err := stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(7), OperationType: "REMOVE"})
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

	stored, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
}

// Muchos ADD concurrentes no pierden actualizaciones.
func TestStockUseCase_ConcurrentAddNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	stock, products, id := newStockFixture(t, 0)

	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			_, err := stock.UpdateStock(ctx, dto.StockUpdateRequest{ProductID: id, QuantityChange: intPtr(2), OperationType: "ADD"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	stored, err := products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Quantity)
}
