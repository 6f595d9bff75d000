package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/inventory"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/memory"
)

type captureGenerator struct {
	threshold int
	products  []*entity.Product
}

func (g *captureGenerator) GenerateLowStockReport(_ context.Context, threshold int, products []*entity.Product) ([]byte, error) {
	g.threshold = threshold
	g.products = products
	return []byte("%PDF-fake"), nil
}

func TestLowStockReportUseCase_Generate(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	categories := usecase.NewCategoryUseCase(s, s.Categories(), s.Products())
	products := usecase.NewProductUseCase(s, s.Categories(), s.Products(), 0)

	c, err := categories.Create(ctx, dto.CreateCategoryRequest{Name: "Office Supplies"})
	require.NoError(t, err)
	for name, qty := range map[string]int{"Notebook": 200, "Pen Set": 4, "Desk Organizer": 0} {
		_, err := products.Create(ctx, dto.CreateProductRequest{Name: name, Price: decimal.NewFromInt(5), Quantity: qty, CategoryID: c.ID})
		require.NoError(t, err)
	}

	gen := &captureGenerator{}
	out, err := inventory.NewLowStockReportUseCase(s.Products(), gen).Generate(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, 10, gen.threshold)
	require.Len(t, gen.products, 2)
	assert.Equal(t, "Desk Organizer", gen.products[0].Name, "menor cantidad primero")
	assert.Equal(t, "Office Supplies", gen.products[1].CategoryName)
}
