package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/middleware"
)

// Protected handles GET /protected/.  It is the authentication probe:
// a valid bearer token gets back its subject id, the administrator
// flag of the reconciled profile and the verified claim payload.
func Protected(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Access granted",
		"subject_id": p.SubjectID,
		"is_admin":   p.IsAdmin(),
		"claims":     p.Claims.Raw,
	})
}
