package repository

// Campos de ordenamiento admitidos para productos.
const (
	SortByID        = "id"
	SortByName      = "name"
	SortByPrice     = "price"
	SortByQuantity  = "quantity"
	SortBySKU       = "sku"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
)

// Dirección de ordenamiento.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageSpec configuración de paginación y orden para listados.
// PageNumber es base cero; PageSize ya viene normalizado por la capa de aplicación.
type PageSpec struct {
	PageNumber int
	PageSize   int
	SortField  string // vacío = orden por defecto (createdAt asc, id asc)
	SortDir    string // asc | desc
}

// Offset devuelve el desplazamiento equivalente al número de página.
func (p PageSpec) Offset() int {
	return p.PageNumber * p.PageSize
}

// Page resultado paginado genérico.
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalItems int
}

// TotalPages número de páginas para el total de elementos.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}
