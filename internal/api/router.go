package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sofiahaqiasofia-hub/film-api-haqia-prod/docs"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/handler"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/middleware"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. The composition root owns
// the lifetime of the store and cache behind the services.
type Deps struct {
	Tokens    ports.TokenVerifier
	Auth      ports.AuthService
	Movies    ports.MovieService
	Directors ports.DirectorService
	Logger    zerolog.Logger

	// AdminSetupToken enables bootstrap admin registration when non-empty.
	AdminSetupToken string
	// RateLimit throttles the /auth routes. Nil disables throttling.
	RateLimit *middleware.RateLimitConfig
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handler.Pinger
	// Metrics receives the HTTP request metrics. Nil uses the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}

	// --- Global middleware ---
	e.Use(middleware.Recover(d.Logger))
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderSetupToken},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "film_api",
		Registerer: registerer,
	}))

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler(d.Readiness)
	authHandler := handler.NewAuthHandler(d.Auth)
	movieHandler := handler.NewMovieHandler(d.Movies, d.Logger)
	directorHandler := handler.NewDirectorHandler(d.Directors, d.Logger)

	authenticated := middleware.Auth(d.Tokens)
	adminOnly := []echo.MiddlewareFunc{authenticated, middleware.RequireRole(domain.RoleAdmin)}

	// --- Operational routes (no auth required) ---
	e.GET("/status", healthHandler.Status)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	if d.RateLimit != nil {
		auth.Use(middleware.RateLimit(*d.RateLimit))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register-admin", authHandler.RegisterAdmin, middleware.AdminSetup(d.Tokens, d.AdminSetupToken))

	// --- Catalog routes ---
	movies := e.Group("/movies")
	movies.GET("", movieHandler.List)
	movies.GET("/:id", movieHandler.Get)
	movies.POST("", movieHandler.Create, authenticated)
	movies.PUT("/:id", movieHandler.Update, adminOnly...)
	movies.DELETE("/:id", movieHandler.Delete, adminOnly...)

	directors := e.Group("/directors")
	directors.GET("", directorHandler.List)
	directors.GET("/:id", directorHandler.Get)
	directors.POST("", directorHandler.Create, authenticated)
	directors.PUT("/:id", directorHandler.Update, adminOnly...)
	directors.DELETE("/:id", directorHandler.Delete, adminOnly...)

	return e
}
