package entity

import "time"

// Category representa una categoría de productos.
// El nombre es único (comparación exacta, sensible a mayúsculas).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryWithCount es una categoría junto con el número de productos que la referencian.
// ProductCount se calcula en cada lectura; no se persiste en la entidad.
type CategoryWithCount struct {
	Category
	ProductCount int
}
