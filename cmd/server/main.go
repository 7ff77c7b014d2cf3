package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	invoicingapp "github.com/invo/backend/internal/application/invoicing"
	partnerapp "github.com/invo/backend/internal/application/partner"
	settingsapp "github.com/invo/backend/internal/application/settings"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/invo/backend/internal/infrastructure/auth"
	"github.com/invo/backend/internal/infrastructure/config"
	"github.com/invo/backend/internal/infrastructure/event"
	"github.com/invo/backend/internal/infrastructure/logger"
	"github.com/invo/backend/internal/infrastructure/persistence"
	"github.com/invo/backend/internal/infrastructure/telemetry"
	"github.com/invo/backend/internal/interfaces/http/handler"
	"github.com/invo/backend/internal/interfaces/http/middleware"
	"github.com/invo/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invo backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	invoiceMetrics, err := telemetry.NewInvoiceMetrics(meterProvider, log)
	if err != nil {
		log.Fatal("Failed to create invoice metrics", zap.Error(err))
	}

	clock := shared.SystemClock{}
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, clock)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	auditRepo := persistence.NewGormDownloadAuditRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)
	settingsService := settingsapp.NewService(cfg.Invoice, log.Named("settings"))

	invoiceService := invoicingapp.NewInvoiceService(invoicingapp.InvoiceServiceConfig{
		InvoiceRepo:    invoiceRepo,
		CustomerRepo:   customerRepo,
		AuditRepo:      auditRepo,
		EventPublisher: eventBus,
		Clock:          clock,
		DefaultTaxRate: settingsService.DefaultTaxRate,
		Metrics:        invoiceMetrics,
		Logger:         log.Named("invoice_service"),
	})
	customerService := partnerapp.NewCustomerService(customerRepo, log.Named("customer_service"))

	var jwtService *auth.JWTService
	if cfg.JWT.Secret != "" {
		jwtService = auth.NewJWTService(cfg.JWT)
	} else {
		log.Warn("JWT secret not configured, download audit runs without actor attribution")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	router.Setup(engine, router.Config{
		InvoiceHandler:  handler.NewInvoiceHandler(invoiceService),
		CustomerHandler: handler.NewCustomerHandler(customerService),
		SettingsHandler: handler.NewSettingsHandler(settingsService),
		SystemHandler:   handler.NewSystemHandler(db),
		JWTService:      jwtService,
		CORS:            corsCfg,
		TracingEnabled:  cfg.Telemetry.Enabled,
		ServiceName:     cfg.Telemetry.ServiceName,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
