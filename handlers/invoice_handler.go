package handlers

import (
	"net/http"
	"time"

	"optinet-backend/models"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerLocation string `json:"customer_location"`

	PlanName  string `json:"plan_name"`
	PlanPrice string `json:"plan_price"`
	PlanSpeed string `json:"plan_speed"`

	TotalAmount int `json:"total_amount"`
	TaxAmount   int `json:"tax_amount"`
	Discount    int `json:"discount"`

	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`
}

// Create handles POST /api/invoices and the public signup endpoint.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	svcReq := service.CreateInvoiceRequest{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerLocation: req.CustomerLocation,
		PlanName:         req.PlanName,
		PlanPrice:        req.PlanPrice,
		PlanSpeed:        req.PlanSpeed,
		TotalAmount:      req.TotalAmount,
		TaxAmount:        req.TaxAmount,
		Discount:         req.Discount,
	}
	if req.InvoiceDate != nil {
		svcReq.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		svcReq.DueDate = *req.DueDate
	}

	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), svcReq)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusCreated, inv)
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var status *models.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := models.InvoiceStatus(raw)
		status = &s
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, invoices)
}

// Get handles GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// UpdateInvoiceRequest represents the request body for updating an invoice
type UpdateInvoiceRequest struct {
	CustomerName     *string `json:"customer_name"`
	CustomerEmail    *string `json:"customer_email"`
	CustomerPhone    *string `json:"customer_phone"`
	CustomerLocation *string `json:"customer_location"`

	PlanName *string `json:"plan_name"`

	TotalAmount *int `json:"total_amount"`
	TaxAmount   *int `json:"tax_amount"`
	Discount    *int `json:"discount"`

	DueDate *time.Time `json:"due_date"`
}

// Update handles PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, service.UpdateInvoiceRequest{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerLocation: req.CustomerLocation,
		PlanName:         req.PlanName,
		TotalAmount:      req.TotalAmount,
		TaxAmount:        req.TaxAmount,
		Discount:         req.Discount,
		DueDate:          req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// Delete handles DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Invoice deleted"})
}

// RefreshStatus handles POST /api/invoices/:id/refresh-status. A pending
// invoice past its due date comes back as overdue.
func (h *InvoiceHandler) RefreshStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.invoiceService.RefreshStatus(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.invoiceService.UpdateStatus(c.Request.Context(), id, models.InvoiceStatus(req.Status))
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// BulkStatusRequest represents the request body for a bulk status change
type BulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required"`
	Status string      `json:"status" binding:"required"`
}

// BulkUpdateStatus handles PATCH /api/invoices/bulk-status
func (h *InvoiceHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	updated, err := h.invoiceService.BulkUpdateStatus(c.Request.Context(), req.IDs, models.InvoiceStatus(req.Status))
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"updated": updated})
}

// RecordPaymentRequest represents the request body for recording a payment
type RecordPaymentRequest struct {
	Amount    int        `json:"amount"`
	Method    string     `json:"method"`
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paid_at"`
}

// RecordPayment handles POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	payment := models.PaymentRecord{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}

	inv, err := h.invoiceService.RecordPayment(c.Request.Context(), id, payment)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// LookupRequest represents the public invoice lookup request
type LookupRequest struct {
	InvoiceNumber string `json:"invoice_number"`
	Email         string `json:"email"`
}

// Lookup handles POST /api/invoices/lookup. Customers must supply both the
// invoice number and the billing email.
func (h *InvoiceHandler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.invoiceService.Lookup(c.Request.Context(), req.InvoiceNumber, req.Email)
	if err != nil {
		respondServiceError(c, err, "No invoice matches that number and email")
		return
	}

	respondOK(c, http.StatusOK, inv)
}

// Send handles POST /api/invoices/:id/send. Delivery failures are reported
// per channel without failing the request.
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.invoiceService.Send(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, result)
}

// Analytics handles GET /api/invoices/analytics
func (h *InvoiceHandler) Analytics(c *gin.Context) {
	summary, err := h.invoiceService.Analytics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, summary)
}
