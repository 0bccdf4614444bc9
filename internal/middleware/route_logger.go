package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger writes one line per completed request with method, path,
// status and elapsed time, keyed by the trace id. Server errors are logged
// at error level so wizard publish failures stand out in the stream.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		evt := log.Info()
		if status >= fiber.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("trace_id", GetTraceID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("ms", time.Since(start).Milliseconds()).
			Msg("Request completed")
		return err
	}
}
