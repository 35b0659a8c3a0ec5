package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// principal returns the identity attached by the Auth middleware. Handlers
// behind Auth always have one; ErrUnauthenticated guards against a route
// registered without it.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
