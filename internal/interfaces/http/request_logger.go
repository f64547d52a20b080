package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

// localError guarda el detalle de un 500 para el log sin enviarlo al cliente.
const localError = "internal_error"

// RequestLogger registra cada petición con método, ruta, status, latencia y request id.
// Se instala después de requestid para que el id ya esté en Locals.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de fiber fije el status antes de loguear
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if id, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", id)
		}
		if uid := GetUserID(c); uid != "" {
			ev = ev.Str("user_id", uid)
		}
		if detail, ok := c.Locals(localError).(string); ok {
			ev = ev.Str("error", detail)
		}
		ev.Msg("HTTP request")
		return nil
	}
}
