package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeFinalAmount(t *testing.T) {
	inv := &Invoice{TotalAmount: 3500, TaxAmount: 560, Discount: 500}
	inv.RecomputeFinalAmount()
	assert.Equal(t, 3560, inv.FinalAmount)
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	pendingDue := &Invoice{Status: InvoiceStatusPending, DueDate: now.Add(-time.Hour)}
	assert.Equal(t, InvoiceStatusOverdue, pendingDue.EffectiveStatus(now))

	pendingNotDue := &Invoice{Status: InvoiceStatusPending, DueDate: now.Add(time.Hour)}
	assert.Equal(t, InvoiceStatusPending, pendingNotDue.EffectiveStatus(now))

	// Only pending invoices flip; a paid invoice past due stays paid.
	paidDue := &Invoice{Status: InvoiceStatusPaid, DueDate: now.Add(-time.Hour)}
	assert.Equal(t, InvoiceStatusPaid, paidDue.EffectiveStatus(now))

	cancelledDue := &Invoice{Status: InvoiceStatusCancelled, DueDate: now.Add(-time.Hour)}
	assert.Equal(t, InvoiceStatusCancelled, cancelledDue.EffectiveStatus(now))
}

func TestAmountPaid(t *testing.T) {
	inv := &Invoice{PaymentHistory: PaymentHistory{
		{Amount: 1000},
		{Amount: 2500},
	}}
	assert.Equal(t, 3500, inv.AmountPaid())

	empty := &Invoice{}
	assert.Equal(t, 0, empty.AmountPaid())
}

func TestNewInvoiceNumberFormat(t *testing.T) {
	number := NewInvoiceNumber()
	assert.True(t, strings.HasPrefix(number, "OPT-"))
	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
}

func TestPaymentHistoryScanNil(t *testing.T) {
	var history PaymentHistory
	require.NoError(t, history.Scan(nil))
	assert.NotNil(t, history)
	assert.Len(t, history, 0)
}

func TestPaymentHistoryScanBytes(t *testing.T) {
	var history PaymentHistory
	require.NoError(t, history.Scan([]byte(`[{"amount":1500,"method":"mpesa"}]`)))
	require.Len(t, history, 1)
	assert.Equal(t, 1500, history[0].Amount)
	assert.Equal(t, "mpesa", history[0].Method)
}
