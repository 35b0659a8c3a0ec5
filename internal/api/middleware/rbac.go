package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after Auth.
// With no roles it only requires an authenticated principal.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").
					SetInternal(domain.ErrUnauthenticated)
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[p.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").
					SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
