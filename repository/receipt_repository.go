package repository

import (
	"context"
	"errors"
	"fmt"

	"optinet-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReceiptRepository handles database operations for receipts
type ReceiptRepository struct {
	db *pgxpool.Pool
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

const receiptColumns = `id, receipt_number, invoice_id, invoice_number,
	customer_name, customer_email, customer_phone,
	plan_name, plan_price, plan_speed,
	amount_paid, payment_method, status, email_sent, whatsapp_sent,
	refunds, created_at, updated_at`

func scanReceipt(row pgx.Row) (*models.Receipt, error) {
	rec := &models.Receipt{}
	err := row.Scan(
		&rec.ID,
		&rec.ReceiptNumber,
		&rec.InvoiceID,
		&rec.InvoiceNumber,
		&rec.CustomerName,
		&rec.CustomerEmail,
		&rec.CustomerPhone,
		&rec.PlanName,
		&rec.PlanPrice,
		&rec.PlanSpeed,
		&rec.AmountPaid,
		&rec.PaymentMethod,
		&rec.Status,
		&rec.EmailSent,
		&rec.WhatsAppSent,
		&rec.Refunds,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// NextReceiptSequence atomically increments and returns the receipt counter.
// The upsert makes concurrent allocations serialize on the counter row, so
// two simultaneous creates can never observe the same value.
func (r *ReceiptRepository) NextReceiptSequence(ctx context.Context) (int, error) {
	query := `
		INSERT INTO counters (name, value) VALUES ('receipt', 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`

	var value int
	if err := r.db.QueryRow(ctx, query).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

// Create creates a new receipt
func (r *ReceiptRepository) Create(ctx context.Context, rec *models.Receipt) error {
	query := `
		INSERT INTO receipts (
			receipt_number, invoice_id, invoice_number,
			customer_name, customer_email, customer_phone,
			plan_name, plan_price, plan_speed,
			amount_paid, payment_method, status, email_sent, whatsapp_sent, refunds
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		rec.ReceiptNumber,
		rec.InvoiceID,
		rec.InvoiceNumber,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.CustomerPhone,
		rec.PlanName,
		rec.PlanPrice,
		rec.PlanSpeed,
		rec.AmountPaid,
		rec.PaymentMethod,
		rec.Status,
		rec.EmailSent,
		rec.WhatsAppSent,
		rec.Refunds,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// GetByID retrieves a receipt by ID
func (r *ReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	return scanReceipt(r.db.QueryRow(ctx, query, id))
}

// Update updates the mutable fields of a receipt. The receipt number and
// copied invoice snapshot are immutable after creation.
func (r *ReceiptRepository) Update(ctx context.Context, rec *models.Receipt) error {
	query := `
		UPDATE receipts SET
			amount_paid = $2,
			payment_method = $3,
			status = $4,
			email_sent = $5,
			whatsapp_sent = $6,
			refunds = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		rec.ID,
		rec.AmountPaid,
		rec.PaymentMethod,
		rec.Status,
		rec.EmailSent,
		rec.WhatsAppSent,
		rec.Refunds,
	).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// List retrieves receipts, optionally filtered by status, newest first.
func (r *ReceiptRepository) List(ctx context.Context, status *models.ReceiptStatus, limit, offset int) ([]*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts`

	args := []interface{}{}
	argIndex := 1

	if status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}

	return receipts, rows.Err()
}

// ListByInvoiceID retrieves all receipts issued against an invoice.
func (r *ReceiptRepository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE invoice_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}

	return receipts, rows.Err()
}

// Delete deletes a receipt
func (r *ReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
