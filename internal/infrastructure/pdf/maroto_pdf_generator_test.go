package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/pdf"
)

func TestMarotoPDFGenerator_GenerateLowStockReport(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("stock-management-api")

	t.Run("con productos", func(t *testing.T) {
		out, err := g.GenerateLowStockReport(context.Background(), 10, []*entity.Product{
			{Name: "Laptop Pro", SKU: "ELEC-LP-002", CategoryName: "Electronics", Quantity: 0, Price: decimal.RequireFromString("1499.99")},
			{Name: "Pen Set", CategoryName: "Office Supplies", Quantity: 4, Price: decimal.RequireFromString("12.99")},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
	})

	t.Run("sin productos", func(t *testing.T) {
		out, err := g.GenerateLowStockReport(context.Background(), 10, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})
}
