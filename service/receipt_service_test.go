package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"optinet-backend/models"
	"optinet-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReceiptStore struct {
	receipts map[uuid.UUID]*models.Receipt
	sequence int
}

func newFakeReceiptStore() *fakeReceiptStore {
	return &fakeReceiptStore{receipts: make(map[uuid.UUID]*models.Receipt)}
}

func (s *fakeReceiptStore) NextReceiptSequence(ctx context.Context) (int, error) {
	s.sequence++
	return s.sequence, nil
}

func (s *fakeReceiptStore) Create(ctx context.Context, rec *models.Receipt) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	copied := *rec
	s.receipts[rec.ID] = &copied
	return nil
}

func (s *fakeReceiptStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	rec, ok := s.receipts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *fakeReceiptStore) Update(ctx context.Context, rec *models.Receipt) error {
	if _, ok := s.receipts[rec.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *rec
	s.receipts[rec.ID] = &copied
	return nil
}

func (s *fakeReceiptStore) List(ctx context.Context, status *models.ReceiptStatus, limit, offset int) ([]*models.Receipt, error) {
	var out []*models.Receipt
	for _, rec := range s.receipts {
		if status == nil || rec.Status == *status {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeReceiptStore) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*models.Receipt, error) {
	var out []*models.Receipt
	for _, rec := range s.receipts {
		if rec.InvoiceID == invoiceID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeReceiptStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.receipts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.receipts, id)
	return nil
}

type fakeWhatsApp struct {
	sent    []string
	failure error
}

func (w *fakeWhatsApp) Send(ctx context.Context, phone, message string) error {
	if w.failure != nil {
		return w.failure
	}
	w.sent = append(w.sent, phone)
	return nil
}

func seedInvoice() (*fakeInvoiceStore, *models.Invoice) {
	invoices := newFakeInvoiceStore()
	inv := &models.Invoice{
		InvoiceNumber: "OPT-1700000000-1",
		CustomerName:  "Jane Wanjiku",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "0712345678",
		PlanName:      "Jumbo",
		PlanPrice:     "3,500",
		PlanSpeed:     "20 Mbps",
		TotalAmount:   3500,
		FinalAmount:   3500,
		Status:        models.InvoiceStatusPaid,
		PaymentHistory: models.PaymentHistory{
			{Amount: 3500, Method: "mpesa", PaidAt: time.Now()},
		},
	}
	_ = invoices.Create(context.Background(), inv)
	return invoices, inv
}

func testReceiptService(invoices InvoiceGetter, mailer EmailSender, whatsapp MessageSender) (*ReceiptService, *fakeReceiptStore) {
	store := newFakeReceiptStore()
	return NewReceiptService(
		ReceiptWithStore(store),
		ReceiptWithInvoiceGetter(invoices),
		ReceiptWithMailer(mailer),
		ReceiptWithWhatsApp(whatsapp),
	), store
}

func TestGenerateFromInvoiceSnapshotAndNumbering(t *testing.T) {
	invoices, inv := seedInvoice()
	svc, _ := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	first, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "REC-0001", first.ReceiptNumber)
	assert.Equal(t, inv.ID, first.InvoiceID)
	assert.Equal(t, inv.InvoiceNumber, first.InvoiceNumber)
	assert.Equal(t, "Jane Wanjiku", first.CustomerName)
	assert.Equal(t, "Jumbo", first.PlanName)
	assert.Equal(t, 3500, first.AmountPaid)
	assert.Equal(t, "mpesa", first.PaymentMethod)
	assert.Equal(t, models.ReceiptStatusDraft, first.Status)

	second, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "REC-0002", second.ReceiptNumber)
}

func TestGenerateFromInvoiceDefaultsToFinalAmount(t *testing.T) {
	invoices := newFakeInvoiceStore()
	inv := &models.Invoice{
		InvoiceNumber: "OPT-1700000000-2",
		CustomerName:  "Jane Wanjiku",
		CustomerEmail: "jane@example.com",
		FinalAmount:   2500,
		Status:        models.InvoiceStatusPending,
	}
	require.NoError(t, invoices.Create(context.Background(), inv))

	svc, _ := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, 2500, rec.AmountPaid)
	assert.Empty(t, rec.PaymentMethod)
}

func TestGenerateFromInvoiceUnknownInvoice(t *testing.T) {
	invoices := newFakeInvoiceStore()
	svc, _ := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	_, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSendMarksChannelsAndStatus(t *testing.T) {
	invoices, inv := seedInvoice()
	mailer := &fakeMailer{}
	whatsapp := &fakeWhatsApp{}
	svc, store := testReceiptService(invoices, mailer, whatsapp)

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, result.EmailSent)
	assert.True(t, result.WhatsAppSent)

	stored, err := store.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusSent, stored.Status)
	assert.True(t, stored.EmailSent)
	assert.True(t, stored.WhatsAppSent)
}

func TestSendPartialFailureStillTransitions(t *testing.T) {
	invoices, inv := seedInvoice()
	mailer := &fakeMailer{failure: errors.New("smtp down")}
	whatsapp := &fakeWhatsApp{}
	svc, store := testReceiptService(invoices, mailer, whatsapp)

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.Equal(t, "smtp down", result.EmailError)
	assert.True(t, result.WhatsAppSent)

	stored, err := store.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusSent, stored.Status)
	assert.False(t, stored.EmailSent)
}

func TestSendTotalFailureKeepsDraft(t *testing.T) {
	invoices, inv := seedInvoice()
	mailer := &fakeMailer{failure: errors.New("smtp down")}
	whatsapp := &fakeWhatsApp{failure: errors.New("api down")}
	svc, store := testReceiptService(invoices, mailer, whatsapp)

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.False(t, result.WhatsAppSent)

	stored, err := store.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusDraft, stored.Status)
}

func TestProcessRefundAppendsRecord(t *testing.T) {
	invoices, inv := seedInvoice()
	svc, store := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)

	refunded, err := svc.ProcessRefund(context.Background(), rec.ID, 1000, "double charge")
	require.NoError(t, err)
	require.Len(t, refunded.Refunds, 1)
	assert.Equal(t, 1000, refunded.Refunds[0].Amount)
	assert.Equal(t, "double charge", refunded.Refunds[0].Reason)

	// The recorded amount and status stay untouched.
	assert.Equal(t, 3500, refunded.AmountPaid)
	assert.Equal(t, models.ReceiptStatusDraft, refunded.Status)

	stored, err := store.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Refunds, 1)
}

func TestProcessRefundValidation(t *testing.T) {
	invoices, inv := seedInvoice()
	svc, _ := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	rec, err := svc.GenerateFromInvoice(context.Background(), GenerateFromInvoiceRequest{InvoiceID: inv.ID})
	require.NoError(t, err)

	_, err = svc.ProcessRefund(context.Background(), rec.ID, 0, "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Problems, "amount must be positive")
	assert.Contains(t, validation.Problems, "reason is required")
}

func TestReceiptUpdateStatusRejectsUnknownValue(t *testing.T) {
	invoices, _ := seedInvoice()
	svc, _ := testReceiptService(invoices, &fakeMailer{}, &fakeWhatsApp{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), models.ReceiptStatus("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
