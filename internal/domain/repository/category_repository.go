package repository

import (
	"context"

	"github.com/jhoicas/stock-management-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y FindByName devuelven (nil, nil) si no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetForUpdate bloquea la fila en modo exclusivo hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Category, error)
	// GetForShare bloquea la fila en modo compartido: impide un borrado concurrente.
	GetForShare(ctx context.Context, id string) (*entity.Category, error)
	FindByName(ctx context.Context, name string) (*entity.Category, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ListWithCounts devuelve todas las categorías con su conteo vivo de productos.
	ListWithCounts(ctx context.Context) ([]*entity.CategoryWithCount, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
}
