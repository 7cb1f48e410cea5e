package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"optinet-backend/models"
	"optinet-backend/notify"
	"optinet-backend/repository"

	"github.com/google/uuid"
)

// ValidationError aggregates one or more field-level problems with a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// InvoiceStore is the slice of the invoice repository the service needs.
type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetByNumberAndEmail(ctx context.Context, number, email string) (*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.InvoiceStatus) error
	MarkOverdueIfDue(ctx context.Context, id uuid.UUID) error
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status models.InvoiceStatus) (int64, error)
	List(ctx context.Context, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error)
	Analytics(ctx context.Context) ([]repository.StatusSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceService handles invoice numbering, derived amounts, the status
// lifecycle and customer delivery.
type InvoiceService struct {
	invoices InvoiceStore
	mailer   EmailSender
	whatsapp MessageSender
	pdf      HTMLRenderer
}

// InvoiceServiceOption is a functional option for InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// InvoiceWithStore sets the invoice store
func InvoiceWithStore(store InvoiceStore) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.invoices = store
	}
}

// InvoiceWithMailer sets the email sender
func InvoiceWithMailer(mailer EmailSender) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.mailer = mailer
	}
}

// InvoiceWithWhatsApp sets the WhatsApp sender
func InvoiceWithWhatsApp(whatsapp MessageSender) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.whatsapp = whatsapp
	}
}

// InvoiceWithPDFRenderer sets the PDF renderer
func InvoiceWithPDFRenderer(pdf HTMLRenderer) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.pdf = pdf
	}
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(opts ...InvoiceServiceOption) *InvoiceService {
	s := &InvoiceService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerLocation string

	PlanName  string
	PlanPrice string
	PlanSpeed string

	TotalAmount int
	TaxAmount   int
	Discount    int

	InvoiceDate time.Time
	DueDate     time.Time
}

// CreateInvoice validates the request against the plan catalog, derives the
// amounts, generates the invoice number and stores the invoice as pending.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	var problems []string
	if req.CustomerName == "" {
		problems = append(problems, "customer_name is required")
	}
	if req.CustomerEmail == "" {
		problems = append(problems, "customer_email is required")
	}

	plan, ok := models.FindPlan(req.PlanName)
	if !ok {
		problems = append(problems, "plan_name is not an offered plan")
	} else {
		if req.PlanPrice == "" {
			req.PlanPrice = plan.Price
		} else if req.PlanPrice != plan.Price {
			problems = append(problems, "plan_price does not match the offered plan")
		}
		if req.PlanSpeed == "" {
			req.PlanSpeed = plan.Speed
		} else if req.PlanSpeed != plan.Speed {
			problems = append(problems, "plan_speed does not match the offered plan")
		}
	}

	if req.InvoiceDate.IsZero() {
		req.InvoiceDate = time.Now()
	}
	if req.DueDate.IsZero() {
		req.DueDate = req.InvoiceDate.AddDate(0, 0, 14)
	}
	if !req.DueDate.After(req.InvoiceDate) {
		problems = append(problems, "due_date must be after the invoice date")
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	totalAmount := req.TotalAmount
	if totalAmount == 0 {
		parsed, err := models.ParsePrice(req.PlanPrice)
		if err != nil {
			return nil, &ValidationError{Problems: []string{err.Error()}}
		}
		totalAmount = parsed
	}

	inv := &models.Invoice{
		InvoiceNumber:    models.NewInvoiceNumber(),
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerLocation: req.CustomerLocation,
		PlanName:         req.PlanName,
		PlanPrice:        req.PlanPrice,
		PlanSpeed:        req.PlanSpeed,
		TotalAmount:      totalAmount,
		TaxAmount:        req.TaxAmount,
		Discount:         req.Discount,
		Status:           models.InvoiceStatusPending,
		InvoiceDate:      req.InvoiceDate,
		DueDate:          req.DueDate,
		PaymentHistory:   models.PaymentHistory{},
	}
	inv.RecomputeFinalAmount()

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvoiceRequest carries optional field updates for an invoice.
// Pointer fields distinguish "leave unchanged" from explicit zero values.
type UpdateInvoiceRequest struct {
	CustomerName     *string
	CustomerEmail    *string
	CustomerPhone    *string
	CustomerLocation *string

	PlanName *string

	TotalAmount *int
	TaxAmount   *int
	Discount    *int

	DueDate *time.Time
}

// UpdateInvoice applies field updates, revalidates the plan and due date
// and recomputes the final amount when any of its inputs changed.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		inv.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		inv.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerPhone != nil {
		inv.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerLocation != nil {
		inv.CustomerLocation = *req.CustomerLocation
	}

	if req.PlanName != nil && *req.PlanName != inv.PlanName {
		plan, ok := models.FindPlan(*req.PlanName)
		if !ok {
			return nil, &ValidationError{Problems: []string{"plan_name is not an offered plan"}}
		}
		inv.PlanName = plan.Name
		inv.PlanPrice = plan.Price
		inv.PlanSpeed = plan.Speed
		if req.TotalAmount == nil {
			parsed, err := models.ParsePrice(plan.Price)
			if err != nil {
				return nil, err
			}
			inv.TotalAmount = parsed
		}
	}

	if req.TotalAmount != nil {
		inv.TotalAmount = *req.TotalAmount
	}
	if req.TaxAmount != nil {
		inv.TaxAmount = *req.TaxAmount
	}
	if req.Discount != nil {
		inv.Discount = *req.Discount
	}
	if req.DueDate != nil {
		if !req.DueDate.After(inv.InvoiceDate) {
			return nil, &ValidationError{Problems: []string{"due_date must be after the invoice date"}}
		}
		inv.DueDate = *req.DueDate
	}

	inv.RecomputeFinalAmount()

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RefreshStatus applies the lazy pending->overdue transition for an
// invoice whose due date has elapsed, then returns the current state.
func (s *InvoiceService) RefreshStatus(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if err := s.invoices.MarkOverdueIfDue(ctx, id); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

// ErrInvalidStatus is returned for a status value outside the enum.
var ErrInvalidStatus = errors.New("invalid status")

func validInvoiceStatus(status models.InvoiceStatus) bool {
	switch status {
	case models.InvoiceStatusPending, models.InvoiceStatusPaid,
		models.InvoiceStatusCancelled, models.InvoiceStatusOverdue:
		return true
	}
	return false
}

// UpdateStatus applies an explicit status transition.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InvoiceStatus) (*models.Invoice, error) {
	if !validInvoiceStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.invoices.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

// BulkUpdateStatus applies one status to several invoices.
func (s *InvoiceService) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status models.InvoiceStatus) (int64, error) {
	if !validInvoiceStatus(status) {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, &ValidationError{Problems: []string{"ids must not be empty"}}
	}
	return s.invoices.BulkUpdateStatus(ctx, ids, status)
}

// RecordPayment appends a payment to the invoice's embedded history and
// marks the invoice paid once the payments cover the final amount.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, payment models.PaymentRecord) (*models.Invoice, error) {
	if payment.Amount <= 0 {
		return nil, &ValidationError{Problems: []string{"amount must be positive"}}
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.PaymentHistory = append(inv.PaymentHistory, payment)
	if inv.AmountPaid() >= inv.FinalAmount {
		inv.Status = models.InvoiceStatusPaid
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Lookup is the public customer self-lookup: both the invoice number and
// the billing email must match.
func (s *InvoiceService) Lookup(ctx context.Context, number, email string) (*models.Invoice, error) {
	if number == "" || email == "" {
		return nil, &ValidationError{Problems: []string{"invoice_number and email are required"}}
	}
	inv, err := s.invoices.GetByNumberAndEmail(ctx, number, email)
	if err != nil {
		return nil, err
	}
	inv.Status = inv.EffectiveStatus(time.Now())
	return inv, nil
}

// List retrieves invoices, optionally filtered by status. Lapsed pending
// invoices read as overdue.
func (s *InvoiceService) List(ctx context.Context, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	invoices, err := s.invoices.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, inv := range invoices {
		inv.Status = inv.EffectiveStatus(now)
	}
	return invoices, nil
}

// Get retrieves a single invoice. A pending invoice past its due date reads
// as overdue; the stored row only changes through RefreshStatus.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Status = inv.EffectiveStatus(time.Now())
	return inv, nil
}

// Delete removes an invoice.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.invoices.Delete(ctx, id)
}

// Analytics returns per-status counts and revenue.
func (s *InvoiceService) Analytics(ctx context.Context) ([]repository.StatusSummary, error) {
	return s.invoices.Analytics(ctx)
}

// InvoiceSendResult reports the per-channel delivery outcome for an
// invoice. Channel failures leave the invoice untouched.
type InvoiceSendResult struct {
	Invoice       *models.Invoice `json:"invoice"`
	EmailSent     bool            `json:"email_sent"`
	EmailError    string          `json:"email_error,omitempty"`
	WhatsAppSent  bool            `json:"whatsapp_sent"`
	WhatsAppError string          `json:"whatsapp_error,omitempty"`
}

// Send dispatches the invoice to the customer by email (with a PDF
// attachment when the renderer succeeds) and WhatsApp.
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceSendResult, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &InvoiceSendResult{Invoice: inv}

	html, err := notify.RenderInvoiceHTML(inv)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		var attachment []byte
		if s.pdf != nil {
			attachment = s.pdf.Render(ctx, html)
		}
		attachmentName := inv.InvoiceNumber + ".pdf"
		if err := s.mailer.Send(ctx, inv.CustomerEmail, "Invoice "+inv.InvoiceNumber, html, attachment, attachmentName); err != nil {
			log.Printf("Warning: invoice %s email delivery failed: %v", inv.InvoiceNumber, err)
			result.EmailError = err.Error()
		} else {
			result.EmailSent = true
		}
	}

	if s.whatsapp != nil && inv.CustomerPhone != "" {
		if err := s.whatsapp.Send(ctx, inv.CustomerPhone, notify.InvoiceMessage(inv)); err != nil {
			log.Printf("Warning: invoice %s whatsapp delivery failed: %v", inv.InvoiceNumber, err)
			result.WhatsAppError = err.Error()
		} else {
			result.WhatsAppSent = true
		}
	}

	return result, nil
}
