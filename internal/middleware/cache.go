package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rturenne/catalog-reservation/internal/config"
)

// cachedResponse is the envelope stored in Redis for a cached catalog
// response.  Only successful JSON GET responses are cached.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// bodyCapture tees the response body into a buffer (up to limit) while
// forwarding it to the client.
type bodyCapture struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	written  int64
	limit    int64
	overflow bool
}

func (w *bodyCapture) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.written += int64(len(b))
	if w.written > w.limit {
		w.overflow = true
	} else {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey derives a stable key from the request path and raw query.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache returns middleware that serves catalog GET responses
// from Redis for the configured TTL.  Disabled (pass-through) when the
// config says so or no Redis client is available; cache errors never
// fail the request.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.EqualFold(c.Request().Method, http.MethodGet) {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cached.Status, echo.MIMEApplicationJSON, cached.Body)
				}
			}

			capture := &bodyCapture{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = capture

			if err := next(c); err != nil {
				return err
			}
			if capture.status != http.StatusOK || capture.overflow {
				return nil
			}
			if raw, err := json.Marshal(cachedResponse{Status: capture.status, Body: capture.buf.Bytes()}); err == nil {
				rdb.Set(ctx, key, raw, cfg.TTL)
			}
			return nil
		}
	}
}
