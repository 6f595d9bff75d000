package ports

import (
	"context"

	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
// Garantiza la atomicidad de los chequeos de unicidad, del borrado de categorías
// y del read-modify-write de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}
