package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/auth"
	"github.com/rturenne/catalog-reservation/internal/config"
	"github.com/rturenne/catalog-reservation/internal/model"
)

func rlCfg(limit int) config.RateLimitConfig {
	return config.RateLimitConfig{Enabled: true, Limit: limit, Window: time.Minute, Prefix: "rl"}
}

// withPrincipal injects a fixed principal ahead of the limiter so the
// key is the subject id.
func withPrincipal(subjectID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetPrincipal(c, &auth.Principal{SubjectID: subjectID, Profile: model.Profile{SubjectID: subjectID}})
			return next(c)
		}
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	rdb := newTestRedis(t)
	e := echo.New()
	e.POST("/reservations/", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, withPrincipal("usr_123"), RateLimit(rlCfg(2), rdb))

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations/", nil))
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestRateLimitKeyedPerSubject(t *testing.T) {
	rdb := newTestRedis(t)
	e := echo.New()
	// Subject comes from a test header so one route can serve two callers.
	subjectFromHeader := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub := c.Request().Header.Get("X-Test-Subject")
			SetPrincipal(c, &auth.Principal{SubjectID: sub, Profile: model.Profile{SubjectID: sub}})
			return next(c)
		}
	}
	e.POST("/reservations/", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		subjectFromHeader, RateLimit(rlCfg(1), rdb))

	do := func(subject string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reservations/", nil)
		req.Header.Set("X-Test-Subject", subject)
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("usr_a"); code != http.StatusCreated {
		t.Fatalf("first usr_a request: status = %d, want 201", code)
	}
	if code := do("usr_b"); code != http.StatusCreated {
		t.Fatalf("usr_b throttled by usr_a's quota: status = %d", code)
	}
	if code := do("usr_a"); code != http.StatusTooManyRequests {
		t.Fatalf("second usr_a request: status = %d, want 429", code)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	cfg := rlCfg(1)
	cfg.Enabled = false
	e.POST("/reservations/", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		RateLimit(cfg, nil))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations/", nil))
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d, want 201", i, rec.Code)
		}
	}
}
