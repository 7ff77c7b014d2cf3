package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoicingapp "github.com/invo/backend/internal/application/invoicing"
	"github.com/invo/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create creates a new invoice. Accepts either a customer_id with precomputed
// amounts or customer_name/customer_phone/amount for derive-style creation.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get retrieves an invoice by id, including soft-deleted ones
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List lists non-deleted invoices, newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	var query struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := invoicingapp.ListInvoicesFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		filter.CustomerID = &customerID
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// Update applies a partial update to an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req invoicingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete soft-deletes an invoice. Repeated deletes succeed and report
// changed=false.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	result, err := h.invoiceService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadResponse confirms a recorded download or print
type DownloadResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Action    string    `json:"action"`
	Recorded  bool      `json:"recorded"`
}

// RecordDownload appends a download audit entry. The action path parameter is
// pdf or print; the actor comes from JWT claims when present.
func (h *InvoiceHandler) RecordDownload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	action := c.Param("action")

	userID := middleware.GetJWTUserUUID(c)

	if err := h.invoiceService.RecordDownload(c.Request.Context(), id, userID, action); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DownloadResponse{InvoiceID: id, Action: action, Recorded: true})
}
