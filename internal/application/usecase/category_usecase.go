package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

// CategoryUseCase casos de uso CRUD para categorías.
// Las mutaciones corren dentro de una transacción (TxRunner) para que la unicidad del nombre
// y la verificación "sin productos" sean atómicas con la escritura.
type CategoryUseCase struct {
	tx         ports.TxRunner
	categories repository.CategoryRepository
	products   repository.ProductRepository
	tracer     trace.Tracer
	now        func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(tx ports.TxRunner, categories repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{
		tx:         tx,
		categories: categories,
		products:   products,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

// List devuelve todas las categorías con su conteo vivo de productos.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(&c.Category, c.ProductCount))
	}
	return out, nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	if !validID(id) {
		return nil, notFound("categoría", id)
	}
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, notFound("categoría", id)
	}
	count, err := uc.products.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category, count), nil
}

// Create crea una categoría. Falla con Conflict si el nombre ya existe.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (_ *dto.CategoryResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "CategoryUseCase.Create", trace.WithAttributes(attribute.String("category.name", in.Name)))
	defer func() { telemetry.End(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository) error {
		exists, err := categories.ExistsByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return duplicateName(in.Name)
		}
		if err := categories.Create(ctx, category); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateName(in.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category, 0), nil
}

// Update cambia nombre y descripción. Conflict si el nuevo nombre pertenece a otra categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (_ *dto.CategoryResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "CategoryUseCase.Update", trace.WithAttributes(attribute.String("category.id", id)))
	defer func() { telemetry.End(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound("categoría", id)
	}
	var (
		category *entity.Category
		count    int
	)
	err = uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		current, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("categoría", id)
		}
		if current.Name != in.Name {
			exists, err := categories.ExistsByName(ctx, in.Name)
			if err != nil {
				return err
			}
			if exists {
				return duplicateName(in.Name)
			}
		}
		current.Name = in.Name
		current.Description = in.Description
		current.UpdatedAt = uc.now()
		if err := categories.Update(ctx, current); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateName(in.Name)
			}
			return err
		}
		count, err = products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		category = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category, count), nil
}

// Delete elimina una categoría sin productos. El conteo y el borrado ocurren en la misma
// transacción con la fila de la categoría bloqueada, así una creación concurrente de
// producto no puede quedar huérfana.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, span := uc.tracer.Start(ctx, "CategoryUseCase.Delete", trace.WithAttributes(attribute.String("category.id", id)))
	defer func() { telemetry.End(span, err) }()

	if !validID(id) {
		return notFound("categoría", id)
	}
	return uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		category, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return notFound("categoría", id)
		}
		count, err := products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: no se puede eliminar '%s', tiene %d producto(s); elimínelos o reasígnelos primero",
				domain.ErrCategoryInUse, category.Name, count)
		}
		return categories.Delete(ctx, id)
	})
}

func duplicateName(name string) error {
	return fmt.Errorf("%w: ya existe una categoría con el nombre '%s'", domain.ErrDuplicate, name)
}
