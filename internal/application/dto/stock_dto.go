package dto

// StockUpdateRequest body para PATCH /api/products/stock.
// QuantityChange es puntero para distinguir "ausente" de cero.
type StockUpdateRequest struct {
	ProductID      string `json:"productId" validate:"required"`
	QuantityChange *int   `json:"quantityChange" validate:"required"`
	OperationType  string `json:"operationType" validate:"required,oneof=ADD REMOVE SET"`
	Notes          string `json:"notes" validate:"max=500"`
}
