package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReceiptStatus represents the status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft ReceiptStatus = "draft"
	ReceiptStatusSent  ReceiptStatus = "sent"
	ReceiptStatusPaid  ReceiptStatus = "paid"
)

// RefundRecord is an auditable entry appended when a refund is processed
type RefundRecord struct {
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	RefundedAt time.Time `json:"refunded_at"`
}

// RefundHistory represents the embedded list of refunds on a receipt
type RefundHistory []RefundRecord

// Value implements driver.Valuer for JSONB
func (r RefundHistory) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *RefundHistory) Scan(value interface{}) error {
	if value == nil {
		*r = make(RefundHistory, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*r = make(RefundHistory, 0)
		return nil
	}

	if len(bytes) == 0 {
		*r = make(RefundHistory, 0)
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Receipt is a payment confirmation issued against an invoice. Customer and
// plan fields are copied at creation time so later invoice edits do not
// retroactively alter an issued receipt. The receipt number is unique and
// immutable after creation.
type Receipt struct {
	ID            uuid.UUID `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`

	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	PlanName  string `json:"plan_name"`
	PlanPrice string `json:"plan_price"`
	PlanSpeed string `json:"plan_speed"`

	AmountPaid    int    `json:"amount_paid"`
	PaymentMethod string `json:"payment_method"`

	Status       ReceiptStatus `json:"status"`
	EmailSent    bool          `json:"email_sent"`
	WhatsAppSent bool          `json:"whatsapp_sent"`

	Refunds RefundHistory `json:"refunds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatReceiptNumber renders a sequence value as a zero-padded
// receipt number: 1 -> REC-0001.
func FormatReceiptNumber(n int) string {
	return fmt.Sprintf("REC-%04d", n)
}
