package handlers

import (
	"net/http"

	"optinet-backend/models"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler handles HTTP requests for receipts
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GenerateReceiptRequest represents the request body for issuing a receipt
// from an invoice. Amount and method default from the invoice when omitted.
type GenerateReceiptRequest struct {
	InvoiceID     uuid.UUID `json:"invoice_id" binding:"required"`
	AmountPaid    int       `json:"amount_paid"`
	PaymentMethod string    `json:"payment_method"`
}

// GenerateFromInvoice handles POST /api/receipts/from-invoice
func (h *ReceiptHandler) GenerateFromInvoice(c *gin.Context) {
	var req GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rec, err := h.receiptService.GenerateFromInvoice(c.Request.Context(), service.GenerateFromInvoiceRequest{
		InvoiceID:     req.InvoiceID,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusCreated, rec)
}

// Send handles POST /api/receipts/:id/send. Delivery failures are reported
// per channel without failing the request.
func (h *ReceiptHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.receiptService.Send(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, result)
}

// List handles GET /api/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var status *models.ReceiptStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ReceiptStatus(raw)
		status = &s
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	receipts, err := h.receiptService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, receipts)
}

// Get handles GET /api/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	rec, err := h.receiptService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, rec)
}

// ListByInvoice handles GET /api/invoices/:id/receipts
func (h *ReceiptHandler) ListByInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	receipts, err := h.receiptService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Invoice not found")
		return
	}

	respondOK(c, http.StatusOK, receipts)
}

// UpdateStatus handles PATCH /api/receipts/:id/status
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
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

	rec, err := h.receiptService.UpdateStatus(c.Request.Context(), id, models.ReceiptStatus(req.Status))
	if err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, rec)
}

// RefundRequest represents the request body for recording a refund
type RefundRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// ProcessRefund handles POST /api/receipts/:id/refund
func (h *ReceiptHandler) ProcessRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rec, err := h.receiptService.ProcessRefund(c.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, rec)
}

// Delete handles DELETE /api/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Receipt not found")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Receipt deleted"})
}
