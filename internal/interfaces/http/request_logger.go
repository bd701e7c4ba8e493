package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// HeaderRequestID cabecera con el id de la petición.
const HeaderRequestID = "X-Request-ID"

// RequestObserver recibe la duración de cada petición (métricas). Puede ser nil.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger asigna un request id y registra cada petición con zerolog.
func RequestLogger(log *logger.Logger, observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)

		err := c.Next()
		if err != nil {
			// el ErrorHandler de la app aún no escribió la respuesta
			if ferr := c.App().ErrorHandler(c, err); ferr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		if observer != nil {
			observer.ObserveRequest(c.Method(), route, status, elapsed)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("petición HTTP")
		return nil
	}
}
