package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/domain"
)

// localsError clave de c.Locals donde queda el error interno para el log de la petición.
const localsError = "handler_error"

// statusFor traduce el tipo de error de dominio a status HTTP y código.
func statusFor(err error) (int, string) {
	switch domain.Kind(err) {
	case domain.ErrNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.ErrConflict:
		return fiber.StatusConflict, "CONFLICT"
	case domain.ErrInvalidInput:
		return fiber.StatusBadRequest, "VALIDATION"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el ErrorResponse correspondiente. Los 500 no exponen el detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(localsError, err)
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador global de Fiber: rutas inexistentes, métodos no permitidos y panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = "INVALID_BODY"
		}
		if fe.Code >= fiber.StatusInternalServerError {
			c.Locals(localsError, err)
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
