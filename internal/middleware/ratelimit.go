package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ErrRateLimitExceeded is returned to the error handler when a client is throttled.
var ErrRateLimitExceeded = fiber.NewError(fiber.StatusTooManyRequests, "You are posting too fast. Please wait a moment and try again.")

// rateLimitDisabled reports whether env is one where throttling is skipped.
func rateLimitDisabled(env string) bool {
	switch env {
	case "", "test", "development":
		return true
	}
	return false
}

// CheckRateLimit reports whether id may hit resource again inside window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errors.New("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces limit requests per window per client IP. env is the
// configured application environment; "test" and "development" skip the check.
// When Redis is unavailable the request is let through.
func RateLimit(rdb *redis.Client, env string, limit int, window time.Duration, resource string) fiber.Handler {
	disabled := rateLimitDisabled(env)
	return func(c *fiber.Ctx) error {
		if disabled || limit <= 0 {
			return c.Next()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, "ip:"+c.IP(), limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit unavailable, allowing request",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			return c.Next()
		}
		if !allowed {
			return ErrRateLimitExceeded
		}
		return c.Next()
	}
}
