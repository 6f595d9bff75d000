package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-management-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas resuelven CategoryName con el nombre actual de la categoría.
// List y las páginas sin SortField se ordenan por created_at y luego id.
// GetByID, GetForUpdate y FindBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	FindBySKU(ctx context.Context, sku string) (*entity.Product, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListPage(ctx context.Context, page PageSpec) (Page[*entity.Product], error)
	ListByCategory(ctx context.Context, categoryID string, page PageSpec) (Page[*entity.Product], error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	// ListBelowQuantity productos con quantity estrictamente menor que threshold,
	// ordenados por quantity ascendente y luego por nombre.
	ListBelowQuantity(ctx context.Context, threshold int) ([]*entity.Product, error)
	// Search coincidencia de subcadena, sin distinguir mayúsculas, sobre name o description.
	Search(ctx context.Context, term string, page PageSpec) (Page[*entity.Product], error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
