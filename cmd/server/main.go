package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/auth"
	"github.com/rturenne/catalog-reservation/internal/config"
	"github.com/rturenne/catalog-reservation/internal/database"
	"github.com/rturenne/catalog-reservation/internal/handler"
	"github.com/rturenne/catalog-reservation/internal/middleware"
	"github.com/rturenne/catalog-reservation/internal/queue"
	"github.com/rturenne/catalog-reservation/internal/repository"
	"github.com/rturenne/catalog-reservation/internal/router"
	"github.com/rturenne/catalog-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	keys := auth.NewKeyCache(cfg.JWKSURL, cfg.JWKSCacheTTL, cfg.JWKSFetchTimeout)
	verifier := auth.NewVerifier(keys)

	profiles := repository.NewProfileRepo(db)
	categories := repository.NewCategoryRepo(db)
	resources := repository.NewResourceRepo(db)
	reservations := repository.NewReservationRepo(db)

	publisher := service.ReservationPublisher{}

	e := echo.New()
	router.Register(e, router.Deps{
		Catalog:           handler.NewCatalogHandler(categories, resources),
		Reservations:      handler.NewReservationHandler(reservations, publisher),
		AdminReservations: handler.NewAdminReservationHandler(reservations, publisher),
		Auth:              middleware.Authenticate(verifier, profiles),
		Cache:             middleware.ResponseCache(config.LoadCacheConfig(), rdb),
		RateLimit:         middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
	})

	go queue.StartReservationConsumer(service.BrokerURL())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
