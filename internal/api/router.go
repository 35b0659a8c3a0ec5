package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gdsc/eventhub/docs" // registers the swagger spec
	"github.com/gdsc/eventhub/internal/api/handler"
	"github.com/gdsc/eventhub/internal/api/middleware"
	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth   ports.AuthService
	Events ports.EventService
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks      map[string]handler.Check
	CORSOrigins []string
	Log         zerolog.Logger
	// Metrics enables the Prometheus middleware and the /metrics endpoint.
	Metrics bool
	// Production turns on HSTS.
	Production bool
	// AuthRateLimit throttles signup and login per client IP, in requests per
	// second. Zero disables it.
	AuthRateLimit float64
	AuthRateBurst int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = echo.ExtractIPDirect()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.SecureHeaders(d.Production))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  corsOrigins(d.CORSOrigins),
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{handler.HeaderTotalCount},
	}))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("eventhub"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	authHandler := handler.NewAuthHandler(d.Auth)
	eventHandler := handler.NewEventHandler(d.Events)
	healthHandler := handler.NewHealthHandler(d.Checks, d.Log)

	requireAuth := middleware.Auth(d.Auth, d.Log)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	throttle := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: d.AuthRateLimit,
		Burst:             d.AuthRateBurst,
	})

	// --- Health probes and docs (no auth required) ---
	e.GET("/ping", healthHandler.Ping)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/users", authHandler.Register, throttle)
	api.POST("/login", authHandler.Login, throttle)
	api.POST("/logout", authHandler.Logout, requireAuth)
	api.GET("/me", authHandler.Me, requireAuth)

	// --- Event routes ---
	events := api.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/registered/:userId", eventHandler.Registered, requireAuth)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create, requireAuth)
	events.PUT("/:id", eventHandler.Update, requireAuth, adminOnly)
	events.DELETE("/:id", eventHandler.Delete, requireAuth, adminOnly)
	events.POST("/:id/register", eventHandler.Register, requireAuth)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
