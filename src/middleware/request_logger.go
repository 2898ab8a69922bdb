package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags each request with an id and logs its outcome.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals("requestId", rid)

		err := c.Next()

		fields := []zap.Field{
			zap.String("requestId", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid := UserID(c); uid != "" {
			fields = append(fields, zap.String("userId", uid))
		}
		if err != nil {
			log.Error("request failed", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("request", fields...)
		return nil
	}
}
