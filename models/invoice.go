package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
)

// PaymentRecord represents a single payment made against an invoice
type PaymentRecord struct {
	Amount    int       `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentHistory represents the embedded list of payments on an invoice
type PaymentHistory []PaymentRecord

// Value implements driver.Valuer for JSONB
func (p PaymentHistory) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *PaymentHistory) Scan(value interface{}) error {
	if value == nil {
		*p = make(PaymentHistory, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*p = make(PaymentHistory, 0)
		return nil
	}

	if len(bytes) == 0 {
		*p = make(PaymentHistory, 0)
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice represents a billing record for a customer subscription
type Invoice struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`

	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerLocation string `json:"customer_location,omitempty"`

	PlanName  string `json:"plan_name"`
	PlanPrice string `json:"plan_price"`
	PlanSpeed string `json:"plan_speed"`

	TotalAmount int `json:"total_amount"`
	TaxAmount   int `json:"tax_amount"`
	Discount    int `json:"discount"`
	FinalAmount int `json:"final_amount"`

	Status      InvoiceStatus `json:"status"`
	InvoiceDate time.Time     `json:"invoice_date"`
	DueDate     time.Time     `json:"due_date"`

	PaymentHistory PaymentHistory `json:"payment_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInvoiceNumber generates an invoice number of the form
// OPT-<unix timestamp>-<random 0-999>. The unique index on the column
// turns the (unlikely) collision into a write failure.
func NewInvoiceNumber() string {
	return fmt.Sprintf("OPT-%d-%d", time.Now().Unix(), rand.Intn(1000))
}

// RecomputeFinalAmount derives the final amount from the stored
// total, tax and discount. Called on every mutation touching those fields.
func (i *Invoice) RecomputeFinalAmount() {
	i.FinalAmount = i.TotalAmount + i.TaxAmount - i.Discount
}

// EffectiveStatus returns the status as of now: a pending invoice whose
// due date has elapsed reads as overdue without a persisted transition.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoiceStatusPending && i.DueDate.Before(now) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// AmountPaid sums the embedded payment history.
func (i *Invoice) AmountPaid() int {
	total := 0
	for _, p := range i.PaymentHistory {
		total += p.Amount
	}
	return total
}
