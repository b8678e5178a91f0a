package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/auth"
	"github.com/rturenne/catalog-reservation/internal/model"
)

// principalKey is the context key under which the authenticated
// principal is stored for the duration of a request.
const principalKey = "principal"

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// ProfileStore reconciles verified claims into the local profile row.
type ProfileStore interface {
	Reconcile(ctx context.Context, subjectID, email, firstName, lastName string) (model.Profile, error)
}

// Authenticate returns middleware that derives a Principal from the
// Authorization header.  Requests without the header proceed as
// anonymous so that public endpoints keep working; downstream
// RequireAuth/RequireAdmin enforce the actual access rules.  A header
// that is present but malformed, or a token that fails verification,
// ends the request with 401.  Profile reconciliation happens here,
// exactly once per request, so every later check observes the same
// profile row.
func Authenticate(verifier TokenVerifier, profiles ProfileStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}
			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header"})
			}

			ctx := c.Request().Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			profile, err := profiles.Reconcile(ctx, claims.SubjectID, claims.Email, claims.FirstName, claims.LastName)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}

			SetPrincipal(c, &auth.Principal{
				SubjectID: claims.SubjectID,
				Claims:    claims,
				Profile:   profile,
			})
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no principal with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if PrincipalFrom(c) == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return next(c)
	}
}

// RequireAdmin rejects requests whose principal's profile does not
// carry the administrator flag.  Safe to stack with RequireAuth; both
// read the principal reconciled by Authenticate.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := PrincipalFrom(c)
		if p == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		if !p.IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}
		return next(c)
	}
}

// SetPrincipal attaches the principal to the request context.
func SetPrincipal(c echo.Context, p *auth.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated principal for the request, or
// nil for anonymous requests.
func PrincipalFrom(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalKey).(*auth.Principal)
	return p
}
