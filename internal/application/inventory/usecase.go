package inventory

import (
	"context"
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
	"github.com/jhoicas/stock-management-api/internal/domain/inventory"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
	"github.com/jhoicas/stock-management-api/pkg/telemetry"
)

const tracerName = "github.com/jhoicas/stock-management-api/internal/application/inventory"

// StockUseCase aplica mutaciones de stock (ADD, REMOVE, SET) de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type StockUseCase struct {
	tx     ports.TxRunner
	tracer trace.Tracer
	now    func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx ports.TxRunner) *StockUseCase {
	return &StockUseCase{
		tx:     tx,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// UpdateStock inicia una transacción, bloquea la fila del producto, calcula la nueva cantidad
// con inventory.ApplyStockOperation y la persiste. Ante un rechazo el producto queda intacto.
func (uc *StockUseCase) UpdateStock(ctx context.Context, in dto.StockUpdateRequest) (_ *dto.ProductResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "StockUseCase.UpdateStock", trace.WithAttributes(
		attribute.String("product.id", in.ProductID),
		attribute.String("stock.operation", in.OperationType),
	))
	defer func() { telemetry.End(span, err) }()

	cmd, err := toStockUpdate(in)
	if err != nil {
		return nil, err
	}
	if cmd.Notes != "" {
		span.AddEvent("stock.notes", trace.WithAttributes(attribute.String("notes", cmd.Notes)))
	}
	if _, perr := uuid.Parse(cmd.ProductID); perr != nil {
		return nil, fmt.Errorf("%w: producto con id '%s'", domain.ErrNotFound, cmd.ProductID)
	}

	var product *entity.Product
	err = uc.tx.Run(ctx, func(_ repository.CategoryRepository, products repository.ProductRepository) error {
		current, err := products.GetForUpdate(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: producto con id '%s'", domain.ErrNotFound, cmd.ProductID)
		}
		next, err := inventory.ApplyStockOperation(current.Quantity, cmd.OperationType, cmd.QuantityChange)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := products.UpdateQuantity(ctx, current.ID, next, now); err != nil {
			return err
		}
		current.Quantity = next
		current.UpdatedAt = now
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("stock.quantity", product.Quantity))
	return &dto.ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Quantity:     product.Quantity,
		SKU:          product.SKU,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}, nil
}

// toStockUpdate valida el comando antes de cualquier acceso a persistencia.
// Un delta negativo en ADD/REMOVE es entrada inválida; SET negativo se rechaza como conflicto
// al aplicar la transición.
func toStockUpdate(in dto.StockUpdateRequest) (entity.StockUpdate, error) {
	if err := validation.Struct(in); err != nil {
		return entity.StockUpdate{}, err
	}
	cmd := entity.StockUpdate{
		ProductID:      in.ProductID,
		QuantityChange: *in.QuantityChange,
		OperationType:  entity.StockOperation(in.OperationType),
		Notes:          in.Notes,
	}
	if !cmd.OperationType.Valid() {
		return entity.StockUpdate{}, fmt.Errorf("%w: operationType desconocido %q", domain.ErrInvalidInput, in.OperationType)
	}
	if cmd.OperationType != entity.StockOperationSet && cmd.QuantityChange < 0 {
		return entity.StockUpdate{}, fmt.Errorf("%w: quantityChange no puede ser negativo para %s", domain.ErrInvalidInput, cmd.OperationType)
	}
	return cmd, nil
}
