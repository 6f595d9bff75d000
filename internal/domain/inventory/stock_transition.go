package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
)

// MaxQuantity cantidad máxima representable en products.quantity (INTEGER).
const MaxQuantity = math.MaxInt32

// ApplyStockOperation calcula la nueva cantidad a partir de la actual (servicio de dominio puro).
//
//	ADD    q' = q + value   (value < 0 -> ErrInvalidInput; q' > MaxQuantity -> ErrStockOverflow)
//	REMOVE q' = q - value   (value < 0 -> ErrInvalidInput; q' < 0 -> ErrInsufficientStock)
//	SET    q' = value       (value < 0 -> ErrNegativeStock; value > MaxQuantity -> ErrInvalidInput)
//
// No hay estado intermedio: ante un error la cantidad devuelta es la actual.
func ApplyStockOperation(current int, op entity.StockOperation, value int) (int, error) {
	switch op {
	case entity.StockOperationAdd:
		if value < 0 {
			return current, fmt.Errorf("%w: la cantidad a sumar no puede ser negativa", domain.ErrInvalidInput)
		}
		if value > MaxQuantity-current {
			return current, fmt.Errorf("%w: no se pueden sumar %d unidades, stock actual: %d, máximo: %d",
				domain.ErrStockOverflow, value, current, MaxQuantity)
		}
		return current + value, nil
	case entity.StockOperationRemove:
		if value < 0 {
			return current, fmt.Errorf("%w: la cantidad a retirar no puede ser negativa", domain.ErrInvalidInput)
		}
		next := current - value
		if next < 0 {
			return current, fmt.Errorf("%w: no se pueden retirar %d unidades, stock actual: %d",
				domain.ErrInsufficientStock, value, current)
		}
		return next, nil
	case entity.StockOperationSet:
		if value < 0 {
			return current, domain.ErrNegativeStock
		}
		if value > MaxQuantity {
			return current, fmt.Errorf("%w: la cantidad no puede superar %d", domain.ErrInvalidInput, MaxQuantity)
		}
		return value, nil
	}
	return current, fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, op)
}
