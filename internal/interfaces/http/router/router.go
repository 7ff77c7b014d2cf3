// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invo/backend/internal/infrastructure/auth"
	"github.com/invo/backend/internal/interfaces/http/handler"
	"github.com/invo/backend/internal/interfaces/http/middleware"
)

// Config carries the dependencies for route registration
type Config struct {
	InvoiceHandler  *handler.InvoiceHandler
	CustomerHandler *handler.CustomerHandler
	SettingsHandler *handler.SettingsHandler
	SystemHandler   *handler.SystemHandler

	// JWTService enables optional actor extraction on audited routes. May be
	// nil, in which case downloads are recorded anonymously.
	JWTService *auth.JWTService

	CORS           middleware.CORSConfig
	TracingEnabled bool
	ServiceName    string
}

// Setup registers middleware and all API routes on the engine. Recovery and
// request logging middleware are expected to be installed by the caller
// before this runs, so they sit outermost in the chain.
func Setup(engine *gin.Engine, cfg Config) {
	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.TracingEnabled {
		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = middleware.DefaultTracingConfig().ServiceName
		}
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TraceRequestID())
	}

	engine.GET("/health", cfg.SystemHandler.Health)

	api := engine.Group("/api/v1")

	system := api.Group("/system")
	{
		system.GET("/info", cfg.SystemHandler.GetSystemInfo)
		system.GET("/ping", cfg.SystemHandler.Ping)
	}

	invoices := api.Group("/invoices")
	if cfg.JWTService != nil {
		invoices.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTService))
	}
	{
		invoices.POST("", cfg.InvoiceHandler.Create)
		invoices.GET("", cfg.InvoiceHandler.List)
		invoices.GET("/:id", cfg.InvoiceHandler.Get)
		invoices.PUT("/:id", cfg.InvoiceHandler.Update)
		invoices.DELETE("/:id", cfg.InvoiceHandler.Delete)
		invoices.POST("/:id/download/:action", cfg.InvoiceHandler.RecordDownload)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", cfg.CustomerHandler.Create)
		customers.GET("", cfg.CustomerHandler.List)
		customers.GET("/:id", cfg.CustomerHandler.Get)
		customers.PUT("/:id", cfg.CustomerHandler.Update)
		customers.POST("/resolve", cfg.CustomerHandler.Resolve)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", cfg.SettingsHandler.Get)
		settings.PATCH("", cfg.SettingsHandler.Update)
	}
}
