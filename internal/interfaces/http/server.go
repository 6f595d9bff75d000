package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stock-management-api/pkg/logger"
)

// NewApp construye la aplicación Fiber con el manejador de errores y los middlewares comunes:
// request id, log de peticiones, tracing y recover (en ese orden).
func NewApp(appName string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(Tracing())
	app.Use(recover.New())
	return app
}
