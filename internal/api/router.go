package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/projecthub/account-entry/docs"
	"github.com/projecthub/account-entry/internal/api/handler"
	"github.com/projecthub/account-entry/internal/api/middleware"
	"github.com/projecthub/account-entry/internal/core/ports"
)

// BodyLimit caps every request body.
const BodyLimit = "64K"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Signup ports.SignupService
	Login  ports.LoginService
	// Ready is checked by /health/ready, keyed by dependency name.
	Ready map[string]handler.Pinger
	Log   zerolog.Logger
	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit(BodyLimit))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – can the account slot be reached?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- v1 ---
	signupHandler := handler.NewSignupHandler(d.Signup)
	loginHandler := handler.NewLoginHandler(d.Login)

	v1 := e.Group("/v1")
	v1.GET("/departments", signupHandler.Departments)
	v1.POST("/signup", signupHandler.Register)
	v1.POST("/login", loginHandler.Login)

	forms := v1.Group("/signup/forms")
	forms.POST("", signupHandler.CreateForm)
	forms.GET("/:id", signupHandler.GetForm)
	forms.DELETE("/:id", signupHandler.DiscardForm)
	forms.PUT("/:id/fields/:field", signupHandler.SetField)
	forms.PUT("/:id/role", signupHandler.SelectRole)
	forms.POST("/:id/submit", signupHandler.Submit)

	return e
}
