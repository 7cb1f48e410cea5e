package service

import (
	"context"
	"log"
	"time"

	"optinet-backend/models"
	"optinet-backend/notify"

	"github.com/google/uuid"
)

// ReceiptStore is the slice of the receipt repository the service needs.
type ReceiptStore interface {
	NextReceiptSequence(ctx context.Context) (int, error)
	Create(ctx context.Context, rec *models.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	Update(ctx context.Context, rec *models.Receipt) error
	List(ctx context.Context, status *models.ReceiptStatus, limit, offset int) ([]*models.Receipt, error)
	ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*models.Receipt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceGetter loads the source invoice a receipt is generated from.
type InvoiceGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

// MessageSender delivers a WhatsApp text message.
type MessageSender interface {
	Send(ctx context.Context, phone, message string) error
}

// HTMLRenderer produces a PDF from HTML, or nil when rendering fails.
type HTMLRenderer interface {
	Render(ctx context.Context, html string) []byte
}

// ReceiptService handles receipt numbering, invoice linkage, delivery and
// refunds.
type ReceiptService struct {
	receipts ReceiptStore
	invoices InvoiceGetter
	mailer   EmailSender
	whatsapp MessageSender
	pdf      HTMLRenderer
}

// ReceiptServiceOption is a functional option for ReceiptService
type ReceiptServiceOption func(*ReceiptService)

// ReceiptWithStore sets the receipt store
func ReceiptWithStore(store ReceiptStore) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.receipts = store
	}
}

// ReceiptWithInvoiceGetter sets the invoice loader
func ReceiptWithInvoiceGetter(invoices InvoiceGetter) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.invoices = invoices
	}
}

// ReceiptWithMailer sets the email sender
func ReceiptWithMailer(mailer EmailSender) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.mailer = mailer
	}
}

// ReceiptWithWhatsApp sets the WhatsApp sender
func ReceiptWithWhatsApp(whatsapp MessageSender) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.whatsapp = whatsapp
	}
}

// ReceiptWithPDFRenderer sets the PDF renderer
func ReceiptWithPDFRenderer(pdf HTMLRenderer) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.pdf = pdf
	}
}

// NewReceiptService creates a new receipt service
func NewReceiptService(opts ...ReceiptServiceOption) *ReceiptService {
	s := &ReceiptService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateFromInvoiceRequest represents a request to issue a receipt.
// Amount and method default from the invoice when omitted.
type GenerateFromInvoiceRequest struct {
	InvoiceID     uuid.UUID
	AmountPaid    int
	PaymentMethod string
}

// GenerateFromInvoice copies customer and plan fields from a loaded
// invoice into a new receipt. The snapshot is decoupled: later invoice
// edits do not alter the issued receipt. The receipt number is allocated
// atomically and is immutable afterwards.
func (s *ReceiptService) GenerateFromInvoice(ctx context.Context, req GenerateFromInvoiceRequest) (*models.Receipt, error) {
	inv, err := s.invoices.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	amount := req.AmountPaid
	if amount <= 0 {
		if paid := inv.AmountPaid(); paid > 0 {
			amount = paid
		} else {
			amount = inv.FinalAmount
		}
	}

	method := req.PaymentMethod
	if method == "" && len(inv.PaymentHistory) > 0 {
		method = inv.PaymentHistory[len(inv.PaymentHistory)-1].Method
	}

	seq, err := s.receipts.NextReceiptSequence(ctx)
	if err != nil {
		return nil, err
	}

	rec := &models.Receipt{
		ReceiptNumber: models.FormatReceiptNumber(seq),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		PlanName:      inv.PlanName,
		PlanPrice:     inv.PlanPrice,
		PlanSpeed:     inv.PlanSpeed,
		AmountPaid:    amount,
		PaymentMethod: method,
		Status:        models.ReceiptStatusDraft,
		Refunds:       models.RefundHistory{},
	}

	if err := s.receipts.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SendResult reports the per-channel delivery outcome. Channel failures do
// not roll back the receipt; they are surfaced here.
type SendResult struct {
	Receipt       *models.Receipt `json:"receipt"`
	EmailSent     bool            `json:"email_sent"`
	EmailError    string          `json:"email_error,omitempty"`
	WhatsAppSent  bool            `json:"whatsapp_sent"`
	WhatsAppError string          `json:"whatsapp_error,omitempty"`
}

// Send dispatches the receipt by email (with a PDF attachment when the
// renderer succeeds) and WhatsApp, records the delivery flags and moves a
// draft receipt to sent when at least one channel delivered.
func (s *ReceiptService) Send(ctx context.Context, id uuid.UUID) (*SendResult, error) {
	rec, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &SendResult{Receipt: rec}

	html, err := notify.RenderReceiptHTML(rec)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		var attachment []byte
		if s.pdf != nil {
			// nil on render failure; the email goes out without it.
			attachment = s.pdf.Render(ctx, html)
		}
		attachmentName := rec.ReceiptNumber + ".pdf"
		if err := s.mailer.Send(ctx, rec.CustomerEmail, "Payment Receipt "+rec.ReceiptNumber, html, attachment, attachmentName); err != nil {
			log.Printf("Warning: receipt %s email delivery failed: %v", rec.ReceiptNumber, err)
			result.EmailError = err.Error()
		} else {
			result.EmailSent = true
			rec.EmailSent = true
		}
	}

	if s.whatsapp != nil && rec.CustomerPhone != "" {
		if err := s.whatsapp.Send(ctx, rec.CustomerPhone, notify.ReceiptMessage(rec)); err != nil {
			log.Printf("Warning: receipt %s whatsapp delivery failed: %v", rec.ReceiptNumber, err)
			result.WhatsAppError = err.Error()
		} else {
			result.WhatsAppSent = true
			rec.WhatsAppSent = true
		}
	}

	if (result.EmailSent || result.WhatsAppSent) && rec.Status == models.ReceiptStatusDraft {
		rec.Status = models.ReceiptStatusSent
	}

	if err := s.receipts.Update(ctx, rec); err != nil {
		return nil, err
	}
	return result, nil
}

func validReceiptStatus(status models.ReceiptStatus) bool {
	switch status {
	case models.ReceiptStatusDraft, models.ReceiptStatusSent, models.ReceiptStatusPaid:
		return true
	}
	return false
}

// UpdateStatus applies an explicit status transition.
func (s *ReceiptService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReceiptStatus) (*models.Receipt, error) {
	if !validReceiptStatus(status) {
		return nil, ErrInvalidStatus
	}

	rec, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Status = status
	if err := s.receipts.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ProcessRefund appends an auditable refund entry to the receipt. The
// amount must be positive and a reason is required; the receipt's stored
// amounts and status are left untouched.
func (s *ReceiptService) ProcessRefund(ctx context.Context, id uuid.UUID, amount int, reason string) (*models.Receipt, error) {
	var problems []string
	if amount <= 0 {
		problems = append(problems, "amount must be positive")
	}
	if reason == "" {
		problems = append(problems, "reason is required")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	rec, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Refunds = append(rec.Refunds, models.RefundRecord{
		Amount:     amount,
		Reason:     reason,
		RefundedAt: time.Now(),
	})

	if err := s.receipts.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get retrieves a single receipt.
func (s *ReceiptService) Get(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	return s.receipts.GetByID(ctx, id)
}

// List retrieves receipts, optionally filtered by status.
func (s *ReceiptService) List(ctx context.Context, status *models.ReceiptStatus, limit, offset int) ([]*models.Receipt, error) {
	return s.receipts.List(ctx, status, limit, offset)
}

// ListByInvoice retrieves receipts issued against one invoice.
func (s *ReceiptService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Receipt, error) {
	return s.receipts.ListByInvoiceID(ctx, invoiceID)
}

// Delete removes a receipt.
func (s *ReceiptService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.receipts.Delete(ctx, id)
}
