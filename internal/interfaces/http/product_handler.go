package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos paginados
// @Tags         products
// @Produce      json
// @Param        page  query  int     false  "Página (base cero)"  default(0)
// @Param        size  query  int     false  "Tamaño de página"    default(20)
// @Param        sort  query  string  false  "Orden: campo,dirección (p. ej. price,desc)"
// @Success      200   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListPage(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar todos los productos sin paginar
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/all [get]
func (h *ProductHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar productos de una categoría
// @Tags         products
// @Produce      json
// @Param        categoryId  path   string  true   "ID de la categoría"
// @Param        page        query  int     false  "Página (base cero)"  default(0)
// @Param        size        query  int     false  "Tamaño de página"    default(20)
// @Param        sort        query  string  false  "Orden: campo,dirección"
// @Success      200         {object}  dto.ProductListResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/products/category/{categoryId} [get]
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListByCategory(c.UserContext(), param(c, "categoryId"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por nombre o descripción
// @Tags         products
// @Produce      json
// @Param        term  query  string  false  "Texto a buscar (sin distinguir mayúsculas)"
// @Param        page  query  int     false  "Página (base cero)"  default(0)
// @Param        size  query  int     false  "Tamaño de página"    default(20)
// @Param        sort  query  string  false  "Orden: campo,dirección"
// @Success      200   {object}  dto.ProductListResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Search(c.UserContext(), query(c, "term"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock por debajo del umbral
// @Tags         products
// @Produce      json
// @Param        threshold  query  int  false  "Umbral estricto (por defecto el configurado, 10)"
// @Success      200        {array}  dto.ProductResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	threshold, err := thresholdParam(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListLowStock(c.UserContext(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), param(c, "id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), param(c, "id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pageRequest lee page/size/sort de la query.
func pageRequest(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, fmt.Errorf("%w: parámetros de paginación inválidos", domain.ErrInvalidInput)
	}
	page.Sort = utils.CopyString(page.Sort)
	return page, nil
}

// thresholdParam nil si no viene en la query.
func thresholdParam(c *fiber.Ctx) (*int, error) {
	raw := c.Query("threshold")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: threshold debe ser un entero no negativo", domain.ErrInvalidInput)
	}
	return &n, nil
}

// param y query devuelven copias que sobreviven a la petición (terminan en spans).
func param(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Params(key))
}

func query(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Query(key))
}
