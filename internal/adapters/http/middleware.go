package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request.
func RequestLogger(log *logrus.Entry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    time.Since(start).String(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		})
		if err != nil {
			entry.WithError(err).Warn("Request failed")
		} else {
			entry.Debug("Request handled")
		}
		return err
	}
}
