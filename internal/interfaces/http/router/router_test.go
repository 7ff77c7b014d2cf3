package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	invoicingapp "github.com/invo/backend/internal/application/invoicing"
	partnerapp "github.com/invo/backend/internal/application/partner"
	settingsapp "github.com/invo/backend/internal/application/settings"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/invo/backend/internal/infrastructure/auth"
	"github.com/invo/backend/internal/infrastructure/config"
	"github.com/invo/backend/internal/interfaces/http/handler"
	"github.com/invo/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	invoiceService := invoicingapp.NewInvoiceService(invoicingapp.InvoiceServiceConfig{
		Clock: shared.NewFakeClock(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)),
	})
	customerService := partnerapp.NewCustomerService(nil, nil)
	settingsService := settingsapp.NewService(config.InvoiceConfig{
		DefaultTaxRate: 18,
		PlaceOfSupply:  "KA",
	}, nil)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		AccessTokenExpiration: time.Hour,
		Issuer:                "invo-backend-test",
	})

	engine := gin.New()
	Setup(engine, Config{
		InvoiceHandler:  handler.NewInvoiceHandler(invoiceService),
		CustomerHandler: handler.NewCustomerHandler(customerService),
		SettingsHandler: handler.NewSettingsHandler(settingsService),
		SystemHandler:   handler.NewSystemHandler(nil),
		JWTService:      jwtService,
		CORS:            middleware.DefaultCORSConfig(),
	})
	return engine
}

func TestSetup_RoutesRegistered(t *testing.T) {
	engine := newTestEngine()

	expected := map[string][]string{
		http.MethodGet:    {"/health", "/api/v1/system/info", "/api/v1/system/ping", "/api/v1/invoices", "/api/v1/invoices/:id", "/api/v1/customers", "/api/v1/customers/:id", "/api/v1/settings"},
		http.MethodPost:   {"/api/v1/invoices", "/api/v1/invoices/:id/download/:action", "/api/v1/customers", "/api/v1/customers/resolve"},
		http.MethodPut:    {"/api/v1/invoices/:id", "/api/v1/customers/:id"},
		http.MethodPatch:  {"/api/v1/settings"},
		http.MethodDelete: {"/api/v1/invoices/:id"},
	}

	registered := make(map[string]map[string]bool)
	for _, route := range engine.Routes() {
		if registered[route.Method] == nil {
			registered[route.Method] = make(map[string]bool)
		}
		registered[route.Method][route.Path] = true
	}

	for method, paths := range expected {
		for _, path := range paths {
			assert.True(t, registered[method][path], "missing route %s %s", method, path)
		}
	}
}

func TestSetup_HealthEndpoint(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestSetup_PingEndpoint(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
