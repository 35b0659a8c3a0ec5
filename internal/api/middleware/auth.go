package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// Authenticator turns a raw bearer token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// Auth validates the bearer token and attaches the principal to the request
// context. A missing or malformed Authorization header is rejected with 401; a
// token that is present but fails verification is rejected with 403.
func Auth(authn Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").
					SetInternal(domain.ErrUnauthenticated)
			}

			req := c.Request()
			p, err := authn.Authenticate(req.Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token").
					SetInternal(domain.ErrInvalidToken)
			}

			c.SetRequest(req.WithContext(domain.ContextWithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
