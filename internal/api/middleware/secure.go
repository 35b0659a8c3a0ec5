package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard browser hardening headers. In production it
// also sends Strict-Transport-Security.
func SecureHeaders(production bool) echo.MiddlewareFunc {
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	}
	if production {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	s := secure.New(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := s.Process(c.Response(), c.Request()); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "request blocked").SetInternal(err)
			}
			return next(c)
		}
	}
}
