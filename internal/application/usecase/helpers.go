package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

const tracerName = "github.com/jhoicas/stock-management-api/internal/application/usecase"

// validID indica si id tiene formato de UUID. Un id mal formado no puede existir:
// se trata como NotFound sin consultar la persistencia.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(entityName, id string) error {
	return fmt.Errorf("%w: %s con id '%s'", domain.ErrNotFound, entityName, id)
}

var sortFields = map[string]bool{
	repository.SortByID:        true,
	repository.SortByName:      true,
	repository.SortByPrice:     true,
	repository.SortByQuantity:  true,
	repository.SortBySKU:       true,
	repository.SortByCreatedAt: true,
	repository.SortByUpdatedAt: true,
}

// PageSpecFrom normaliza la paginación del request y la traduce al puerto de persistencia.
func PageSpecFrom(in dto.PageRequest) (repository.PageSpec, error) {
	in.DefaultPage()
	if in.Page < 0 {
		return repository.PageSpec{}, fmt.Errorf("%w: page no puede ser negativo", domain.ErrInvalidInput)
	}
	spec := repository.PageSpec{PageNumber: in.Page, PageSize: in.Size}
	if s := strings.TrimSpace(in.Sort); s != "" {
		field, dir, _ := strings.Cut(s, ",")
		field = strings.TrimSpace(field)
		dir = strings.ToLower(strings.TrimSpace(dir))
		if !sortFields[field] {
			return repository.PageSpec{}, fmt.Errorf("%w: campo de orden desconocido %q", domain.ErrInvalidInput, field)
		}
		switch dir {
		case "":
			dir = repository.SortAsc
		case repository.SortAsc, repository.SortDesc:
		default:
			return repository.PageSpec{}, fmt.Errorf("%w: dirección de orden desconocida %q", domain.ErrInvalidInput, dir)
		}
		spec.SortField = field
		spec.SortDir = dir
	}
	return spec, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quantity:     p.Quantity,
		SKU:          p.SKU,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductListResponse(page repository.Page[*entity.Product]) *dto.ProductListResponse {
	return &dto.ProductListResponse{
		Items: toProductResponses(page.Items),
		Page: dto.PageResponse{
			Number:     page.PageNumber,
			Size:       page.PageSize,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages(),
		},
	}
}

func toCategoryResponse(c *entity.Category, productCount int) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
	}
}
