// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/handler"
	"github.com/rturenne/catalog-reservation/internal/middleware"
)

// Deps bundles everything route registration needs.  Auth is the
// bearer-token middleware chain entry; Cache and RateLimit may be
// pass-throughs when Redis is unavailable.
type Deps struct {
	Catalog           *handler.CatalogHandler
	Reservations      *handler.ReservationHandler
	AdminReservations *handler.AdminReservationHandler
	Auth              echo.MiddlewareFunc
	Cache             echo.MiddlewareFunc
	RateLimit         echo.MiddlewareFunc
}

// Register attaches all routes to e.  Catalog reads are public (and
// cached); everything else runs behind the authentication middleware,
// with the admin group additionally gated on the administrator flag.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Public catalog, served through the response cache.
	e.GET("/categories/", d.Catalog.ListCategories, d.Cache)
	e.GET("/resources/", d.Catalog.ListResources, d.Cache)
	e.GET("/resources/:id/", d.Catalog.GetResource, d.Cache)

	// Authenticated surface.  Authenticate lets anonymous requests
	// through; RequireAuth is what actually rejects them, so a missing
	// header turns into a 401 at the right layer.
	authed := e.Group("", d.Auth, middleware.RequireAuth)
	authed.GET("/protected/", handler.Protected)
	authed.POST("/reservations/", d.Reservations.Create, d.RateLimit)
	authed.GET("/my-reservations/", d.Reservations.ListMine)

	admin := e.Group("", d.Auth, middleware.RequireAuth, middleware.RequireAdmin)
	admin.GET("/admin-reservations/", d.AdminReservations.ListAll)
	admin.POST("/admin-reservations/:id/status/", d.AdminReservations.UpdateStatus)
}
