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

// InvoiceRepository handles database operations for invoices
type InvoiceRepository struct {
	db *pgxpool.Pool
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, invoice_number, customer_name, customer_email, customer_phone,
	customer_location, plan_name, plan_price, plan_speed,
	total_amount, tax_amount, discount, final_amount,
	status, invoice_date, due_date, payment_history, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.CustomerName,
		&inv.CustomerEmail,
		&inv.CustomerPhone,
		&inv.CustomerLocation,
		&inv.PlanName,
		&inv.PlanPrice,
		&inv.PlanSpeed,
		&inv.TotalAmount,
		&inv.TaxAmount,
		&inv.Discount,
		&inv.FinalAmount,
		&inv.Status,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.PaymentHistory,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_number, customer_name, customer_email, customer_phone,
			customer_location, plan_name, plan_price, plan_speed,
			total_amount, tax_amount, discount, final_amount,
			status, invoice_date, due_date, payment_history
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		inv.InvoiceNumber,
		inv.CustomerName,
		inv.CustomerEmail,
		inv.CustomerPhone,
		inv.CustomerLocation,
		inv.PlanName,
		inv.PlanPrice,
		inv.PlanSpeed,
		inv.TotalAmount,
		inv.TaxAmount,
		inv.Discount,
		inv.FinalAmount,
		inv.Status,
		inv.InvoiceDate,
		inv.DueDate,
		inv.PaymentHistory,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRow(ctx, query, id))
}

// GetByNumberAndEmail retrieves an invoice for the customer self-lookup.
// Both the invoice number and the customer email must match.
func (r *InvoiceRepository) GetByNumberAndEmail(ctx context.Context, number, email string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE invoice_number = $1 AND lower(customer_email) = lower($2)`
	return scanInvoice(r.db.QueryRow(ctx, query, number, email))
}

// Update updates an invoice
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	query := `
		UPDATE invoices SET
			customer_name = $2,
			customer_email = $3,
			customer_phone = $4,
			customer_location = $5,
			plan_name = $6,
			plan_price = $7,
			plan_speed = $8,
			total_amount = $9,
			tax_amount = $10,
			discount = $11,
			final_amount = $12,
			status = $13,
			invoice_date = $14,
			due_date = $15,
			payment_history = $16,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		inv.ID,
		inv.CustomerName,
		inv.CustomerEmail,
		inv.CustomerPhone,
		inv.CustomerLocation,
		inv.PlanName,
		inv.PlanPrice,
		inv.PlanSpeed,
		inv.TotalAmount,
		inv.TaxAmount,
		inv.Discount,
		inv.FinalAmount,
		inv.Status,
		inv.InvoiceDate,
		inv.DueDate,
		inv.PaymentHistory,
	).Scan(&inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UpdateStatus sets the status of a single invoice
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InvoiceStatus) error {
	query := `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverdueIfDue persists the pending->overdue transition in one
// conditional statement. It is a no-op for invoices that are not pending
// or not yet due.
func (r *InvoiceRepository) MarkOverdueIfDue(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND due_date < NOW()`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// BulkUpdateStatus sets the status of several invoices at once and returns
// the number of rows touched.
func (r *InvoiceRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status models.InvoiceStatus) (int64, error) {
	query := `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = ANY($1)`
	tag, err := r.db.Exec(ctx, query, ids, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// List retrieves invoices, optionally filtered by status, newest first.
func (r *InvoiceRepository) List(ctx context.Context, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`

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

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// StatusSummary is a per-status aggregate used by the analytics endpoint
type StatusSummary struct {
	Status  models.InvoiceStatus `json:"status"`
	Count   int                  `json:"count"`
	Revenue int                  `json:"revenue"`
}

// Analytics returns invoice counts and summed final amounts grouped by status.
func (r *InvoiceRepository) Analytics(ctx context.Context) ([]StatusSummary, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(final_amount), 0)
		FROM invoices
		GROUP BY status
		ORDER BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []StatusSummary
	for rows.Next() {
		var s StatusSummary
		if err := rows.Scan(&s.Status, &s.Count, &s.Revenue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Delete deletes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
