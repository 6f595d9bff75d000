package dto

// PageRequest paginación y orden para listados.
// Sort tiene el formato "campo" o "campo,dirección" (p. ej. "price,desc").
type PageRequest struct {
	Page int    `query:"page"`
	Size int    `query:"size"`
	Sort string `query:"sort"`
}

// DefaultPageSize tamaño de página cuando no se indica.
const DefaultPageSize = 20

// MaxPageSize límite superior del tamaño de página.
const MaxPageSize = 100

// DefaultPage aplica valores por defecto si Size es cero y recorta Size al máximo.
func (p *PageRequest) DefaultPage() {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
