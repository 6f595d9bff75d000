package inventory

import (
	"context"

	"github.com/jhoicas/stock-management-api/internal/application/ports"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

// LowStockReportUseCase genera el reporte de productos por debajo del umbral de stock,
// ordenados de menor a mayor cantidad para priorizar la reposición.
type LowStockReportUseCase struct {
	products  repository.ProductRepository
	generator ports.LowStockReportGenerator
}

// NewLowStockReportUseCase construye el caso de uso de reporte.
func NewLowStockReportUseCase(products repository.ProductRepository, generator ports.LowStockReportGenerator) *LowStockReportUseCase {
	return &LowStockReportUseCase{products: products, generator: generator}
}

// Generate devuelve el documento renderizado por el generador configurado.
func (uc *LowStockReportUseCase) Generate(ctx context.Context, threshold int) ([]byte, error) {
	list, err := uc.products.ListBelowQuantity(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateLowStockReport(ctx, threshold, list)
}
