package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jportela/marcenaria-api/pkg/logger"
)

// RequestLogger registra cada requisição HTTP no logger estruturado:
// método, rota, status, latência e o user_id quando autenticado.
// Respostas 4xx saem como warn e 5xx como error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event = event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if userID := GetUserID(c); userID != "" {
			event = event.Str("user_id", userID)
		}
		event.Msg("request")

		return err
	}
}
