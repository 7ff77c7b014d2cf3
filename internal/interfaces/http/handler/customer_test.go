package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/invo/backend/internal/application/partner"
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCustomerRouter(customerRepo *MockCustomerRepository) *gin.Engine {
	service := partnerapp.NewCustomerService(customerRepo, nil)
	h := NewCustomerHandler(service)

	router := gin.New()
	v1 := router.Group("/api/v1")
	customers := v1.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", h.Update)
	customers.POST("/resolve", h.Resolve)
	return router
}

func TestCustomerHandler_Create(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	customerRepo.On("ExistsActiveByMobile", mock.Anything, "9876543210", mock.Anything).Return(false, nil)
	customerRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.Name == "Ravi Kumar" && c.MobileNormalized == "9876543210"
	})).Return(nil)

	w := performJSON(router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Ravi Kumar",
		"phone": "+91 98765 43210",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate_warning":false`)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_Create_DuplicateMobileWarns(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	customerRepo.On("ExistsActiveByMobile", mock.Anything, "9876543210", mock.Anything).Return(true, nil)
	customerRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	w := performJSON(router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Ravi Kumar",
		"phone": "9876543210",
	})

	// duplicates warn, they do not block
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate_warning":true`)
}

func TestCustomerHandler_Create_MissingName(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	w := performJSON(router, http.MethodPost, "/api/v1/customers", gin.H{
		"phone": "9876543210",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	id := uuid.New()
	customerRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := performJSON(router, http.MethodGet, "/api/v1/customers/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_List(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	customer, err := partner.NewIndividualCustomer("Ravi Kumar", "9876543210")
	require.NoError(t, err)
	customerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]partner.Customer{*customer}, nil)
	customerRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := performJSON(router, http.MethodGet, "/api/v1/customers?search=ravi", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravi Kumar")
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestCustomerHandler_Update(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	customer, err := partner.NewIndividualCustomer("Ravi Kumar", "9876543210")
	require.NoError(t, err)
	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	customerRepo.On("ExistsActiveByMobile", mock.Anything, "9876543210", customer.ID).Return(false, nil)
	customerRepo.On("Save", mock.Anything, customer).Return(nil)

	w := performJSON(router, http.MethodPut, "/api/v1/customers/"+customer.ID.String(), gin.H{
		"name": "Ravi K",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravi K")
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_Resolve_ExistingMatch(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	existing, err := partner.NewIndividualCustomer("Ravi Kumar", "9876543210")
	require.NoError(t, err)
	customerRepo.On("FindActiveByNameAndPhone", mock.Anything, "Ravi Kumar", "9876543210").Return(existing, nil)

	w := performJSON(router, http.MethodPost, "/api/v1/customers/resolve", gin.H{
		"name":  "Ravi Kumar",
		"phone": "9876543210",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), existing.ID.String())
	customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerHandler_Resolve_CreatesWhenMissing(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	router := setupCustomerRouter(customerRepo)

	customerRepo.On("FindActiveByNameAndPhone", mock.Anything, "Ravi Kumar", "9876543210").Return(nil, nil)
	customerRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.Name == "Ravi Kumar" && c.Type == partner.CustomerTypeIndividual
	})).Return(nil)

	w := performJSON(router, http.MethodPost, "/api/v1/customers/resolve", gin.H{
		"name":  "Ravi Kumar",
		"phone": "9876543210",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	customerRepo.AssertExpectations(t)
}
