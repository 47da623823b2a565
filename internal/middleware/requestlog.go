package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ateliernoir/storefront-backend/internal/logging"
)

// RequestLog logs every request and injects a request-scoped logger
// carrying a request id into the fiber context.
func RequestLog(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("X-Request-Id", reqID)

		l := base.With(
			"req_id", reqID,
			"method", c.Method(),
			"path", c.Path(),
			"remote", c.IP(),
		)
		logging.With(c, l)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		attrs := []any{
			"status", status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", len(c.Response().Body()),
		}
		if err != nil {
			attrs = append(attrs, "error", err.Error())
		}
		if status >= fiber.StatusBadRequest {
			l.Error("http_request", attrs...)
		} else {
			l.Info("http_request", attrs...)
		}
		return err
	}
}
