package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rturenne/catalog-reservation/internal/config"
)

// RateLimit returns middleware applying a fixed-window limit to the
// wrapped routes, keyed by the authenticated subject id (anonymous
// requests fall back to the client IP; they will be rejected by
// RequireAuth anyway but still consume a slot).  Pass-through when
// disabled or no Redis client is available; Redis failures fail open
// so a broken limiter never takes the API down.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := c.RealIP()
			if p := PrincipalFrom(c); p != nil {
				caller = p.SubjectID
			}
			key := cfg.Prefix + ":" + c.Path() + ":" + caller

			ctx := c.Request().Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}
			if count > int64(cfg.Limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
