package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity nunca es negativa; SKU, si no está vacío, es único entre todos los productos.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta, >= 0
	Quantity     int
	SKU          string // opcional
	CategoryID   string
	CategoryName string // resuelto en lectura (JOIN), nunca una copia persistida
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
