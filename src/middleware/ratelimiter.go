package middleware

import (
	"fmt"
	"strconv"
	"time"

	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window counter kept in Redis.
type RateLimiter struct {
	redisClient *redis.Client
	log         *zap.Logger
}

func NewRateLimiter(client *redis.Client, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{redisClient: client, log: log}
}

// Limit allows limit requests per window for each user, or client IP when
// anonymous. Requests pass through when Redis is unavailable.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl == nil || rl.redisClient == nil {
			return c.Next()
		}
		who := UserID(c)
		if who == "" {
			who = c.IP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, who)
		ctx := c.UserContext()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, window).Err(); err != nil {
				// a counter without a TTL would never reset
				rl.log.Warn("rate limit window not set, dropping counter", zap.String("key", key), zap.Error(err))
				rl.redisClient.Del(ctx, key)
				return c.Next()
			}
		}

		if count > int64(limit) {
			ttl, err := rl.redisClient.TTL(ctx, key).Result()
			if err == nil && ttl < 0 {
				rl.redisClient.Expire(ctx, key, window)
				ttl = window
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ttl.Seconds())))
			return utils.HandleError(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}
		return c.Next()
	}
}
