package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/ports"
	"github.com/jhoicas/stock-management-api/internal/application/validation"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
	"github.com/jhoicas/stock-management-api/pkg/telemetry"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el llamador no indica uno.
const DefaultLowStockThreshold = 10

// ProductUseCase casos de uso CRUD y consultas para productos.
// La cantidad se cambia también vía inventory.StockUseCase (ADD/REMOVE/SET).
type ProductUseCase struct {
	tx                ports.TxRunner
	categories        repository.CategoryRepository
	products          repository.ProductRepository
	lowStockThreshold int
	tracer            trace.Tracer
	now               func() time.Time
}

// NewProductUseCase construye el caso de uso. lowStockThreshold <= 0 usa DefaultLowStockThreshold.
func NewProductUseCase(
	tx ports.TxRunner,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	lowStockThreshold int,
) *ProductUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &ProductUseCase{
		tx:                tx,
		categories:        categories,
		products:          products,
		lowStockThreshold: lowStockThreshold,
		tracer:            otel.Tracer(tracerName),
		now:               time.Now,
	}
}

// List devuelve todos los productos sin paginar.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListPage devuelve una página de productos.
func (uc *ProductUseCase) ListPage(ctx context.Context, in dto.PageRequest) (*dto.ProductListResponse, error) {
	spec, err := PageSpecFrom(in)
	if err != nil {
		return nil, err
	}
	page, err := uc.products.ListPage(ctx, spec)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(page), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if !validID(id) {
		return nil, notFound("producto", id)
	}
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFound("producto", id)
	}
	return toProductResponse(product), nil
}

// ListByCategory devuelve una página de productos de la categoría. NotFound si la categoría no existe.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID string, in dto.PageRequest) (*dto.ProductListResponse, error) {
	spec, err := PageSpecFrom(in)
	if err != nil {
		return nil, err
	}
	if !validID(categoryID) {
		return nil, notFound("categoría", categoryID)
	}
	exists, err := uc.categories.ExistsByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("categoría", categoryID)
	}
	page, err := uc.products.ListByCategory(ctx, categoryID, spec)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(page), nil
}

// Search busca term (sin distinguir mayúsculas) en nombre o descripción. Term vacío devuelve todo.
func (uc *ProductUseCase) Search(ctx context.Context, term string, in dto.PageRequest) (*dto.ProductListResponse, error) {
	spec, err := PageSpecFrom(in)
	if err != nil {
		return nil, err
	}
	page, err := uc.products.Search(ctx, term, spec)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(page), nil
}

// ListLowStock productos con quantity estrictamente menor que threshold.
// threshold nil usa el umbral configurado (10 por defecto).
func (uc *ProductUseCase) ListLowStock(ctx context.Context, threshold *int) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListBelowQuantity(ctx, uc.Threshold(threshold))
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Threshold resuelve el umbral efectivo de stock bajo.
func (uc *ProductUseCase) Threshold(threshold *int) int {
	if threshold == nil {
		return uc.lowStockThreshold
	}
	return *threshold
}

// Create crea un producto. Conflict si el SKU (no vacío) ya existe; NotFound si la categoría no existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (_ *dto.ProductResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "ProductUseCase.Create", trace.WithAttributes(
		attribute.String("product.sku", in.SKU),
		attribute.String("category.id", in.CategoryID),
	))
	defer func() { telemetry.End(span, err) }()

	if err := validateProductFields(in.Price, validation.Struct(in)); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		SKU:         in.SKU,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		if in.SKU != "" {
			exists, err := products.ExistsBySKU(ctx, in.SKU)
			if err != nil {
				return err
			}
			if exists {
				return duplicateSKU(in.SKU)
			}
		}
		category, err := lockCategory(ctx, categories, in.CategoryID)
		if err != nil {
			return err
		}
		product.CategoryName = category.Name
		if err := products.Create(ctx, product); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateSKU(in.SKU)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update reemplaza nombre, descripción, precio, cantidad, SKU y categoría; refresca UpdatedAt.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (_ *dto.ProductResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "ProductUseCase.Update", trace.WithAttributes(attribute.String("product.id", id)))
	defer func() { telemetry.End(span, err) }()

	if err := validateProductFields(in.Price, validation.Struct(in)); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound("producto", id)
	}
	var product *entity.Product
	err = uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		current, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("producto", id)
		}
		if in.SKU != "" && in.SKU != current.SKU {
			exists, err := products.ExistsBySKU(ctx, in.SKU)
			if err != nil {
				return err
			}
			if exists {
				return duplicateSKU(in.SKU)
			}
		}
		category, err := lockCategory(ctx, categories, in.CategoryID)
		if err != nil {
			return err
		}
		current.Name = in.Name
		current.Description = in.Description
		current.Price = in.Price
		current.Quantity = in.Quantity
		current.SKU = in.SKU
		current.CategoryID = category.ID
		current.CategoryName = category.Name
		current.UpdatedAt = uc.now()
		if err := products.Update(ctx, current); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateSKU(in.SKU)
			}
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto (sin dependientes, borrado incondicional).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, span := uc.tracer.Start(ctx, "ProductUseCase.Delete", trace.WithAttributes(attribute.String("product.id", id)))
	defer func() { telemetry.End(span, err) }()

	if !validID(id) {
		return notFound("producto", id)
	}
	return uc.tx.Run(ctx, func(_ repository.CategoryRepository, products repository.ProductRepository) error {
		exists, err := products.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("producto", id)
		}
		return products.Delete(ctx, id)
	})
}

// lockCategory resuelve la categoría bloqueándola en modo compartido: un borrado
// concurrente de la categoría espera a que esta transacción termine.
func lockCategory(ctx context.Context, categories repository.CategoryRepository, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, notFound("categoría", id)
	}
	category, err := categories.GetForShare(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, notFound("categoría", id)
	}
	return category, nil
}

// Límites de products.price NUMERIC(12, 2).
var (
	priceScale int32 = 2
	maxPrice         = decimal.New(1, 10)
)

func validateProductFields(price decimal.Decimal, structErr error) error {
	if structErr != nil {
		return structErr
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if !price.Equal(price.Round(priceScale)) {
		return fmt.Errorf("%w: price admite como máximo %d decimales", domain.ErrInvalidInput, priceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price debe ser menor que %s", domain.ErrInvalidInput, maxPrice)
	}
	return nil
}

func duplicateSKU(sku string) error {
	return fmt.Errorf("%w: ya existe un producto con el SKU '%s'", domain.ErrDuplicate, sku)
}
