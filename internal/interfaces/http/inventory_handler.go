package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/inventory"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
)

// InventoryHandler mutaciones de stock y reporte de stock bajo.
type InventoryHandler struct {
	stock    *inventory.StockUseCase
	report   *inventory.LowStockReportUseCase
	products *usecase.ProductUseCase
}

// NewInventoryHandler construye el handler. products resuelve el umbral de stock bajo configurado.
func NewInventoryHandler(stock *inventory.StockUseCase, report *inventory.LowStockReportUseCase, products *usecase.ProductUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, report: report, products: products}
}

// UpdateStock godoc
// @Summary      Modificar stock (ADD, REMOVE, SET)
// @Description  Aplica la operación de forma atómica sobre el producto. REMOVE no puede dejar stock negativo.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockUpdateRequest  true  "Operación de stock"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/stock [patch]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.StockUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.stock.UpdateStock(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         products
// @Produce      application/pdf
// @Param        threshold  query  int  false  "Umbral estricto (por defecto el configurado, 10)"
// @Success      200        {file}  binary
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/products/low-stock/report.pdf [get]
func (h *InventoryHandler) LowStockReport(c *fiber.Ctx) error {
	threshold, err := thresholdParam(c)
	if err != nil {
		return respondError(c, err)
	}
	effective := h.products.Threshold(threshold)
	pdf, err := h.report.Generate(c.UserContext(), effective)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="low-stock-%d.pdf"`, effective))
	return c.Send(pdf)
}
