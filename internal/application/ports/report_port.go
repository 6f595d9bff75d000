package ports

import (
	"context"

	"github.com/jhoicas/stock-management-api/internal/domain/entity"
)

// LowStockReportGenerator define el puerto de salida para renderizar el reporte de stock bajo.
// Cualquier adaptador (PDF, CSV, mock) debe implementar esta interfaz.
type LowStockReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, threshold int, products []*entity.Product) ([]byte, error)
}
