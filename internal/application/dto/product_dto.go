package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0,max=2147483647"`
	SKU         string          `json:"sku" validate:"max=50"`
	CategoryID  string          `json:"categoryId" validate:"required"`
}

// UpdateProductRequest reemplazo completo de un producto (excepto id y timestamps).
type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0,max=2147483647"`
	SKU         string          `json:"sku" validate:"max=50"`
	CategoryID  string          `json:"categoryId" validate:"required"`
}

// ProductResponse salida de un producto con su categoría resuelta.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	SKU          string          `json:"sku"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
