package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/inventory"
)

func TestApplyStockOperation(t *testing.T) {
	tests := []struct {
		name    string
		current int
		op      entity.StockOperation
		value   int
		want    int
		wantErr error
	}{
		{name: "ADD suma", current: 10, op: entity.StockOperationAdd, value: 5, want: 15},
		{name: "ADD cero", current: 10, op: entity.StockOperationAdd, value: 0, want: 10},
		{name: "ADD negativo es entrada inválida", current: 10, op: entity.StockOperationAdd, value: -1, want: 10, wantErr: domain.ErrInvalidInput},
		{name: "REMOVE resta", current: 10, op: entity.StockOperationRemove, value: 4, want: 6},
		{name: "REMOVE hasta cero", current: 10, op: entity.StockOperationRemove, value: 10, want: 0},
		{name: "REMOVE insuficiente", current: 10, op: entity.StockOperationRemove, value: 15, want: 10, wantErr: domain.ErrInsufficientStock},
		{name: "REMOVE negativo es entrada inválida", current: 10, op: entity.StockOperationRemove, value: -3, want: 10, wantErr: domain.ErrInvalidInput},
		{name: "SET fija", current: 10, op: entity.StockOperationSet, value: 42, want: 42},
		{name: "SET cero", current: 10, op: entity.StockOperationSet, value: 0, want: 0},
		{name: "SET negativo es conflicto", current: 10, op: entity.StockOperationSet, value: -1, want: 10, wantErr: domain.ErrNegativeStock},
		{name: "ADD hasta el máximo", current: 10, op: entity.StockOperationAdd, value: inventory.MaxQuantity - 10, want: inventory.MaxQuantity},
		{name: "ADD que supera el máximo", current: 10, op: entity.StockOperationAdd, value: inventory.MaxQuantity - 9, want: 10, wantErr: domain.ErrStockOverflow},
		{name: "ADD de math.MaxInt no desborda", current: 10, op: entity.StockOperationAdd, value: math.MaxInt, want: 10, wantErr: domain.ErrConflict},
		{name: "REMOVE de math.MaxInt es insuficiente", current: 10, op: entity.StockOperationRemove, value: math.MaxInt, want: 10, wantErr: domain.ErrInsufficientStock},
		{name: "SET por encima del máximo", current: 10, op: entity.StockOperationSet, value: inventory.MaxQuantity + 1, want: 10, wantErr: domain.ErrInvalidInput},
		{name: "operación desconocida", current: 10, op: "MULTIPLY", value: 2, want: 10, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.ApplyStockOperation(tt.current, tt.op, tt.value)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// Los rechazos por stock son Conflict; los valores negativos en ADD/REMOVE son InvalidInput.
func TestApplyStockOperation_TiposDeError(t *testing.T) {
	_, err := inventory.ApplyStockOperation(1, entity.StockOperationRemove, 2)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ApplyStockOperation(1, entity.StockOperationSet, -5)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = inventory.ApplyStockOperation(1, entity.StockOperationAdd, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

// SET al mismo valor dos veces seguidas es idempotente.
func TestApplyStockOperation_SetIdempotente(t *testing.T) {
	first, err := inventory.ApplyStockOperation(3, entity.StockOperationSet, 7)
	require.NoError(t, err)
	second, err := inventory.ApplyStockOperation(first, entity.StockOperationSet, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Ninguna secuencia de operaciones exitosas deja el stock en negativo.
func TestApplyStockOperation_NuncaNegativo(t *testing.T) {
	ops := []struct {
		op    entity.StockOperation
		value int
	}{
		{entity.StockOperationAdd, 3},
		{entity.StockOperationRemove, 5},
		{entity.StockOperationRemove, 2},
		{entity.StockOperationSet, 1},
		{entity.StockOperationRemove, 2},
		{entity.StockOperationAdd, 10},
		{entity.StockOperationRemove, 11},
		{entity.StockOperationRemove, 1},
	}
	q := 2
	for _, o := range ops {
		next, err := inventory.ApplyStockOperation(q, o.op, o.value)
		if err != nil {
			assert.Equal(t, q, next, "un rechazo no modifica la cantidad")
			continue
		}
		q = next
		assert.GreaterOrEqual(t, q, 0)
	}
	assert.Equal(t, 0, q)
}
