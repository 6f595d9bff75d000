package domain

import "errors"

// Tipos de error de dominio (sin dependencias externas).
// Son resultados deterministas de las reglas de negocio: ninguno se reintenta.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrInvalidInput = errors.New("entrada inválida")
)

// Errores concretos; envuelven un tipo para que errors.Is los clasifique.
var (
	ErrDuplicate         = newKindError(ErrConflict, "recurso duplicado")
	ErrCategoryInUse     = newKindError(ErrConflict, "la categoría tiene productos asociados")
	ErrInsufficientStock = newKindError(ErrConflict, "stock insuficiente")
	ErrNegativeStock     = newKindError(ErrConflict, "no se puede fijar un stock negativo")
	ErrStockOverflow     = newKindError(ErrConflict, "la cantidad supera el máximo admitido")
)

// kindError error concreto cuyo mensaje no repite el del tipo que envuelve.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Kind devuelve el tipo de error de dominio (ErrNotFound, ErrConflict, ErrInvalidInput)
// o nil si err no es un error de negocio (p. ej. fallo transitorio de la BD).
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	}
	return nil
}
