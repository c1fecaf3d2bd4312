package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pharmacy/storefront/docs"
	"github.com/pharmacy/storefront/internal/api/handler"
	"github.com/pharmacy/storefront/internal/api/middleware"
	"github.com/pharmacy/storefront/internal/core/ports"
)

// Dependencies is everything the router needs from the composition root.
type Dependencies struct {
	Auth                ports.AuthService
	Registration        ports.RegistrationService
	Checks              []handler.DependencyCheck
	AllowedOrigins      []string
	ExposeAdminIdentity bool
	Log                 zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.ExposeAdminIdentity, deps.Log)
	userHandler := handler.NewUserHandler(deps.Registration)
	healthHandler := handler.NewHealthHandler(deps.Checks...)

	// --- Storefront API ---
	api := e.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/users", userHandler.Register)

	// --- Health checks ---
	e.GET("/health", healthHandler.Liveness)       // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
